// internal/adapters/places/client.go
package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"places_reviewcheck/internal/adapters/observability"
	"places_reviewcheck/internal/domain"
)

const (
	DefaultLegacyBase  = "https://maps.googleapis.com/maps/api/place"
	DefaultV1Base      = "https://places.googleapis.com/v1"
	DefaultGeocodeURL  = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultMapsJSURL   = "https://maps.googleapis.com/maps/api/js"
	defaultTimeout     = 20 * time.Second
	maxBodyBytes       = 4 << 20
	maxMessageRunes    = 512
	userAgent          = "places-reviewcheck/1.0"
	observedServiceTag = "google_places"
)

var (
	ErrMissingKey = errors.New("places: API key is required")
	ErrNoPlace    = domain.ErrNoPlace
	ErrBadStatus  = errors.New("places: response status not OK")
)

// StatusError is returned for any non-2xx HTTP response.
type StatusError struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("places %s: bad status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("places %s: bad status %d: %s", e.Endpoint, e.Code, e.Message)
}

type Option func(*settings)

type settings struct {
	hc          *http.Client
	timeout     time.Duration
	newestFirst bool
}

// WithHTTPClient replaces the default client; its Timeout wins over WithTimeout.
func WithHTTPClient(hc *http.Client) Option { return func(s *settings) { s.hc = hc } }

func WithTimeout(d time.Duration) Option { return func(s *settings) { s.timeout = d } }

// WithNewestFirst asks the legacy details endpoint for reviews_sort=newest.
func WithNewestFirst(on bool) Option { return func(s *settings) { s.newestFirst = on } }

func buildSettings(opts []Option) settings {
	s := settings{timeout: defaultTimeout, newestFirst: true}
	for _, o := range opts {
		o(&s)
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.hc == nil {
		s.hc = &http.Client{Timeout: s.timeout}
	}
	return s
}

// transport is the single-shot HTTP layer shared by both API families.
// No retries: a failed call is reported and the caller moves on.
type transport struct {
	hc *http.Client
}

// fetch sends one request and reads the capped body. Every call, including
// transport failures (status 0), is recorded under endpoint.
func (t *transport) fetch(ctx context.Context, req *http.Request, endpoint string) (int, []byte, error) {
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", userAgent)

	log.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Str("url", redact(req.URL)).
		Msg("places request")

	start := time.Now()
	resp, err := t.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(observedServiceTag, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, fmt.Errorf("places %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	observability.ObserveExternal(observedServiceTag, endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("places %s: read body: %w", endpoint, err)
	}
	return resp.StatusCode, body, nil
}

// do is fetch for JSON endpoints: non-2xx and invalid bodies are errors.
func (t *transport) do(ctx context.Context, req *http.Request, endpoint string) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	code, body, err := t.fetch(ctx, req, endpoint)
	if err != nil {
		return nil, err
	}
	if code < 200 || code > 299 {
		return nil, &StatusError{Endpoint: endpoint, Code: code, Message: upstreamMessage(body)}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("places %s: invalid JSON body", endpoint)
	}
	return body, nil
}

// upstreamMessage pulls the human-readable part out of an error body.
func upstreamMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, p := range []string{"error.message", "error_message"} {
			if m := gjson.GetBytes(body, p); m.Exists() && m.String() != "" {
				return m.String()
			}
		}
	}
	msg := strings.ToValidUTF8(strings.TrimSpace(string(body)), "")
	if utf8.RuneCountInString(msg) > maxMessageRunes {
		msg = string([]rune(msg)[:maxMessageRunes])
	}
	return msg
}

// redact hides the key query parameter before a URL is logged.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
	}
	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}
