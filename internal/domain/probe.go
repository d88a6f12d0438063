package domain

import "context"

// KeyCheck is the outcome of one API key check.
type KeyCheck struct {
	Name     string
	Status   string // body status for JSON endpoints, "" otherwise
	Message  string
	HTTPCode int
	OK       bool
}

type KeyChecker interface {
	CheckPlaces(ctx context.Context) (KeyCheck, error)
	CheckGeocoding(ctx context.Context) (KeyCheck, error)
	CheckMapsJS(ctx context.Context) (KeyCheck, error)
}
