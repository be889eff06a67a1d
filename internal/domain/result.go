package domain

// ResultKind distinguishes the three shapes a read-path emission can take.
type ResultKind int

const (
	// KindLoading is emitted when the cache is empty and a remote fetch is
	// still in flight.
	KindLoading ResultKind = iota
	// KindSuccess carries data, either from cache or freshly fetched.
	KindSuccess
	// KindError carries a failure plus whatever cached data was available.
	KindError
)

// Result is the emission type of the offline-first read path. A fetch
// yields at most two results: the cached value first (or Loading when the
// cache is empty), then the remote-derived value or an error.
type Result[T any] struct {
	Kind      ResultKind
	Data      T
	FromCache bool
	Err       error
	Cached    T // last known cached value accompanying an error
}

// Loading returns the emission for an empty cache with a fetch pending.
func Loading[T any]() Result[T] {
	return Result[T]{Kind: KindLoading}
}

// Success returns a data-bearing emission. fromCache tells the
// presentation layer to show a "using cached data" indicator.
func Success[T any](data T, fromCache bool) Result[T] {
	return Result[T]{Kind: KindSuccess, Data: data, FromCache: fromCache}
}

// Failure returns an error emission carrying the last cached value so the
// cache-first result already shown is never discarded.
func Failure[T any](err error, cached T) Result[T] {
	return Result[T]{Kind: KindError, Err: err, Cached: cached}
}
