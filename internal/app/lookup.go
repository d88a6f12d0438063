package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"places_reviewcheck/internal/domain"
)

// Lookup is the boundary between the Places client and the driver: every
// client error is logged here and turned into absence.
type Lookup struct {
	client domain.PlacesClient
	api    domain.API
}

func NewLookup(c domain.PlacesClient, api domain.API) *Lookup {
	return &Lookup{client: c, api: api}
}

func (l *Lookup) Resolve(ctx context.Context, query string) (domain.Candidate, bool) {
	cand, err := l.client.FindPlace(ctx, query)
	if err != nil {
		l.failure(err).Str("query", query).Msg("find place failed")
		return domain.Candidate{}, false
	}
	log.Debug().Str("api", string(l.api)).Str("query", query).Str("place_id", string(cand.Ref)).Msg("place resolved")
	return cand, true
}

func (l *Lookup) Details(ctx context.Context, ref domain.PlaceRef) (domain.PlaceDetails, bool) {
	d, err := l.client.GetDetails(ctx, ref)
	if err != nil {
		l.failure(err).Str("place_id", string(ref)).Msg("place details failed")
		return domain.PlaceDetails{}, false
	}
	return d, true
}

// failure picks the level: a search with no match is expected, the rest is not.
func (l *Lookup) failure(err error) *zerolog.Event {
	ev := log.Warn()
	if errors.Is(err, domain.ErrNoPlace) {
		ev = log.Info()
	}
	return ev.Err(err).Str("api", string(l.api))
}
