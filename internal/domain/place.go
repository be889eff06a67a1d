package domain

// Place categories understood by the places search API and the local cache.
// The set mirrors the remote service's category filter.
const (
	CategoryRestaurant = "restaurant"
	CategoryHotel      = "hotel"
	CategoryAttraction = "attraction"
	CategoryHospital   = "hospital"
	CategoryPolice     = "police"
	CategoryFuel       = "fuel"
)

// Place is a cached point-of-interest. Places are read-only copies of
// remote data and carry no sync state: every successful fetch for an
// area+category replaces the records in that scope.
type Place struct {
	ID        int64   `json:"id,omitempty"` // local surrogate key, 0 before insert
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Phone     string  `json:"phone,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Favorite  bool    `json:"favorite"`
	FetchedAt int64   `json:"-"` // unix millis of the fetch that cached it
}

// BoundingBox is the approximate location bucket used for place cache
// lookups and scope-replacement.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// AreaAround returns the bounding box covering radius degrees in every
// direction from (lat, lon). The cache uses 0.05° (~5 km) buckets.
func AreaAround(lat, lon, radius float64) BoundingBox {
	return BoundingBox{
		MinLat: lat - radius,
		MaxLat: lat + radius,
		MinLon: lon - radius,
		MaxLon: lon + radius,
	}
}

// Contains reports whether the point lies inside the box. The engine uses
// it to keep remote search results confined to their cache bucket.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
