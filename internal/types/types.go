// README: Shared identifier and geographic point types.
package types

// ID identifies rides, bids, and negotiation chains.
type ID string

// Point is a (latitude, longitude) pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
