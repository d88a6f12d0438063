package places

import (
	"fmt"
	"time"

	"places_reviewcheck/internal/domain"
)

type Endpoints struct {
	LegacyBase string
	V1Base     string
	Timeout    time.Duration
}

// ForProfile builds the client the profile's API family needs.
func ForProfile(e Endpoints, key string, p domain.Profile) (domain.PlacesClient, error) {
	switch p.API {
	case domain.APILegacy, "":
		return NewLegacy(e.LegacyBase, key, WithTimeout(e.Timeout), WithNewestFirst(p.NewestFirst))
	case domain.APINew:
		return NewV1(e.V1Base, key, WithTimeout(e.Timeout))
	default:
		return nil, fmt.Errorf("places: unknown api %q", p.API)
	}
}
