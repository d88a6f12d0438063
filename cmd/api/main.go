package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	server "places_reviewcheck/internal/adapters/http_server"
	"places_reviewcheck/internal/adapters/observability"
	"places_reviewcheck/internal/adapters/places"
	"places_reviewcheck/internal/domain"
	"places_reviewcheck/internal/shared"
)

func main() {
	cfg := shared.Load()

	// console in dev, JSON otherwise
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	profiles, err := shared.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.ProfilesFile).Msg("load profiles failed")
	}
	def := "legacy"
	if _, ok := profiles[def]; !ok {
		def = shared.ProfileNames(profiles)[0]
	}

	endpoints := places.Endpoints{LegacyBase: cfg.LegacyBase, V1Base: cfg.V1Base, Timeout: cfg.HTTPTimeout}
	h := &server.Handlers{
		Profiles:       profiles,
		DefaultProfile: def,
		Clients: func(p domain.Profile) (domain.PlacesClient, error) {
			return places.ForProfile(endpoints, cfg.APIKey, p)
		},
	}

	var limiter *rate.Limiter
	if cfg.APIRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.APIRPS), cfg.APIRPS)
	}

	budget := server.CheckBudget(profiles, cfg.HTTPTimeout)
	srv := server.New(h, limiter, server.WithRequestTimeout(budget))
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("default_profile", def).Int("rps", cfg.APIRPS).Dur("request_timeout", budget).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
