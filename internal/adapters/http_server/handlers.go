// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"places_reviewcheck/internal/app"
	"places_reviewcheck/internal/domain"
)

// ClientFactory returns the Places client for a profile.
type ClientFactory func(p domain.Profile) (domain.PlacesClient, error)

type Handlers struct {
	Profiles       map[string]domain.Profile
	DefaultProfile string
	Clients        ClientFactory
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type reviewView struct {
	Author       *string  `json:"author"`
	Rating       *float64 `json:"rating"`
	Text         *string  `json:"text"`
	RelativeTime *string  `json:"relative_time"`
	Timestamp    *string  `json:"timestamp"`
}

type placeView struct {
	ID          domain.PlaceRef `json:"id"`
	Name        *string         `json:"name"`
	Address     *string         `json:"address"`
	Rating      *float64        `json:"rating,omitempty"`
	RatingCount *int64          `json:"rating_count,omitempty"`
	Reviews     []reviewView    `json:"reviews,omitempty"`
}

type checkView struct {
	Profile  string      `json:"profile"`
	Found    bool        `json:"found"`
	Query    string      `json:"query,omitempty"`
	Attempts int         `json:"attempts"`
	Place    *placeView  `json:"place,omitempty"`
	Matches  []app.Match `json:"matches"`
}

func toPlaceView(d domain.PlaceDetails) placeView {
	v := placeView{ID: d.Ref, Name: d.Name, Address: d.Address, Rating: d.Rating, RatingCount: d.RatingCount}
	for _, r := range d.Reviews {
		v.Reviews = append(v.Reviews, reviewView{
			Author: r.Author, Rating: r.Rating, Text: r.Text,
			RelativeTime: r.RelativeTime, Timestamp: r.Timestamp,
		})
	}
	return v
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

var errUnknownVariant = errors.New("unknown variant")

// profileFor resolves ?variant= and builds its client.
func (h *Handlers) profileFor(r *http.Request) (domain.Profile, domain.PlacesClient, error) {
	name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("variant")))
	if name == "" {
		name = h.DefaultProfile
	}
	p, ok := h.Profiles[name]
	if !ok {
		return domain.Profile{}, nil, errUnknownVariant
	}
	c, err := h.Clients(p)
	if err != nil {
		return domain.Profile{}, nil, err
	}
	return p, c, nil
}

func (h *Handlers) clientOrProblem(w http.ResponseWriter, r *http.Request) (domain.Profile, domain.PlacesClient, bool) {
	p, c, err := h.profileFor(r)
	switch {
	case errors.Is(err, errUnknownVariant):
		writeProblem(w, http.StatusBadRequest, "Invalid variant", "variant must be one of the configured profiles")
		return p, nil, false
	case err != nil:
		log.Error().Err(err).Msg("build places client failed")
		writeProblem(w, http.StatusInternalServerError, "Client unavailable", "places client could not be created")
		return p, nil, false
	}
	return p, c, true
}

func (h *Handlers) searchPlace(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeProblem(w, http.StatusBadRequest, "Missing query", "q is required")
		return
	}
	p, c, ok := h.clientOrProblem(w, r)
	if !ok {
		return
	}
	cand, found := app.NewLookup(c, p.API).Resolve(r.Context(), q)
	if !found {
		writeProblem(w, http.StatusNotFound, "Not Found", "no place matched the query")
		return
	}
	writeJSON(w, r, placeView{ID: cand.Ref, Name: cand.Name, Address: cand.Address})
}

func (h *Handlers) placeReviews(w http.ResponseWriter, r *http.Request) {
	ref := domain.PlaceRef(chi.URLParam(r, "ref"))
	if ref == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid place", "place id is required")
		return
	}
	p, c, ok := h.clientOrProblem(w, r)
	if !ok {
		return
	}
	d, found := app.NewLookup(c, p.API).Details(r.Context(), ref)
	if !found {
		writeProblem(w, http.StatusNotFound, "Not Found", "place details not available")
		return
	}
	writeJSON(w, r, toPlaceView(d))
}

// check runs the whole candidate walk; ?q= replaces the profile's candidates.
func (h *Handlers) check(w http.ResponseWriter, r *http.Request) {
	p, c, ok := h.clientOrProblem(w, r)
	if !ok {
		return
	}
	if qs := r.URL.Query()["q"]; len(qs) > 0 {
		p.Candidates = qs
	}
	res, err := app.NewDriver(c, p, nil).Run(r.Context())
	if err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Canceled", err.Error())
		return
	}
	out := checkView{Profile: p.Name, Found: res.Found, Query: res.Query, Attempts: res.Attempts, Matches: res.Matches}
	if out.Matches == nil {
		out.Matches = []app.Match{}
	}
	if res.Found {
		pv := toPlaceView(res.Place)
		out.Place = &pv
	}
	writeJSON(w, r, out)
}
