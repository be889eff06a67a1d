package domain

// EmergencyNumbers holds the police/ambulance/fire numbers for one
// country. At most one record exists per country code (upsert semantics).
type EmergencyNumbers struct {
	Country   string `json:"country"`
	Police    string `json:"police"`
	Ambulance string `json:"ambulance"`
	Fire      string `json:"fire"`
	CachedAt  int64  `json:"-"` // unix millis when the record was cached
}
