package domain

type PlaceRef string

// Candidate is the first hit returned by a place search.
type Candidate struct {
	Ref     PlaceRef
	Name    *string
	Address *string
}

type PlaceDetails struct {
	Ref         PlaceRef
	Name        *string
	Address     *string
	Rating      *float64 // 0..5
	RatingCount *int64
	Reviews     []Review
}
