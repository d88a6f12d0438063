package domain

type Review struct {
	Author       *string
	Rating       *float64
	Text         *string
	RelativeTime *string
	// Timestamp is the absolute publish time as the API sent it: unix
	// seconds on the legacy API, RFC3339 on the new one.
	Timestamp *string
	RawJSON   []byte // untouched review object from the details response
}
