package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"places_reviewcheck/internal/domain"
)

const defaultRequestTimeout = 60 * time.Second

type Server struct{ mux *chi.Mux }

type Option func(*options)

type options struct{ timeout time.Duration }

// WithRequestTimeout bounds every request; <= 0 keeps the default.
func WithRequestTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// CheckBudget is the longest a /v1/check walk can take: two upstream calls
// per candidate, each bounded by perCall, plus slack for rendering.
func CheckBudget(profiles map[string]domain.Profile, perCall time.Duration) time.Duration {
	most := 1
	for _, p := range profiles {
		most = max(most, len(p.Candidates))
	}
	return time.Duration(most)*2*perCall + 5*time.Second
}

// New builds the router. Each /v1 call spends upstream quota, so those
// routes sit behind limiter (nil disables it).
func New(h *Handlers, limiter *rate.Limiter, opts ...Option) *Server {
	o := options{timeout: defaultRequestTimeout}
	for _, fn := range opts {
		fn(&o)
	}
	if o.timeout <= 0 {
		o.timeout = defaultRequestTimeout
	}
	m := chi.NewRouter()

	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(o.timeout))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	m.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	m.Route("/v1", func(r chi.Router) {
		if limiter != nil {
			r.Use(RateLimit(limiter))
		}
		r.Get("/places/search", h.searchPlace)
		r.Get("/places/{ref}/reviews", h.placeReviews)
		r.Get("/check", h.check)
	})

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
