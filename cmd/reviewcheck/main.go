package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"places_reviewcheck/internal/adapters/observability"
	"places_reviewcheck/internal/adapters/places"
	"places_reviewcheck/internal/app"
	"places_reviewcheck/internal/domain"
	"places_reviewcheck/internal/shared"
)

var (
	errExhausted   = errors.New("no candidate produced reviews")
	errKeyRejected = errors.New("places api rejected the key")
)

type deps struct {
	profiles map[string]domain.Profile
	clients  func(domain.Profile) (domain.PlacesClient, error)
	checker  func() (domain.KeyChecker, error)
	out      io.Writer
}

func newRootCmd(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "reviewcheck",
		Short:         "Check whether a place's Google reviews can be fetched",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, name := range shared.ProfileNames(d.profiles) {
		root.AddCommand(profileCmd(d, d.profiles[name]))
	}

	root.AddCommand(&cobra.Command{
		Use:   "probe",
		Short: "Test the API key against Places, Geocoding and Maps JS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kc, err := d.checker()
			if err != nil {
				return err
			}
			res := app.NewProber(kc, d.out).Run(cmd.Context())
			if res[0].Err != nil || !res[0].Check.OK {
				return errKeyRejected
			}
			return nil
		},
	})
	return root
}

func profileCmd(d deps, p domain.Profile) *cobra.Command {
	var queries, targets []string
	short := p.Label
	if short == "" {
		short = "Run the " + p.Name + " review check"
	}
	cmd := &cobra.Command{
		Use:   p.Name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(queries) > 0 {
				p.Candidates = queries
			}
			if cmd.Flags().Changed("target") {
				p.Targets = targets
			}
			c, err := d.clients(p)
			if err != nil {
				return err
			}
			res, err := app.NewDriver(c, p, d.out).Run(cmd.Context())
			if err != nil {
				return err
			}
			if !res.Found {
				return errExhausted
			}
			log.Info().Str("profile", p.Name).Str("query", res.Query).Int("attempts", res.Attempts).
				Int("matches", len(res.Matches)).Msg("reviews found")
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "candidate query (repeatable, replaces the profile list)")
	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "author substrings to flag (replaces the profile list)")
	return cmd
}

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	profiles, err := shared.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.ProfilesFile).Msg("load profiles failed")
	}

	observability.Serve(cfg.MetricsAddr)

	endpoints := places.Endpoints{LegacyBase: cfg.LegacyBase, V1Base: cfg.V1Base, Timeout: cfg.HTTPTimeout}
	root := newRootCmd(deps{
		profiles: profiles,
		clients: func(p domain.Profile) (domain.PlacesClient, error) {
			return places.ForProfile(endpoints, cfg.APIKey, p)
		},
		checker: func() (domain.KeyChecker, error) {
			return places.NewKeyProbe(places.ProbeURLs{
				LegacyBase: cfg.LegacyBase,
				GeocodeURL: cfg.GeocodeURL,
				MapsJSURL:  cfg.MapsJSURL,
			}, cfg.APIKey, places.WithTimeout(cfg.HTTPTimeout))
		},
		out: os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errExhausted) && !errors.Is(err, errKeyRejected) {
			fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		}
		stop()
		os.Exit(1)
	}
}
