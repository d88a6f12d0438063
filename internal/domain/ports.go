package domain

import "context"

type PlacesClient interface {
	FindPlace(ctx context.Context, query string) (Candidate, error)
	GetDetails(ctx context.Context, ref PlaceRef) (PlaceDetails, error)
}

// API names the Places API family a client talks to.
type API string

const (
	APILegacy API = "legacy"
	APINew    API = "new"
)
