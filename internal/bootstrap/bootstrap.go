// Package bootstrap builds the shared components of the binaries from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"location-dedup/internal/addressapi"
	"location-dedup/internal/config"
	"location-dedup/internal/duplicate"
	"location-dedup/internal/geocoder"
	"location-dedup/internal/repository"
	"location-dedup/internal/service"
	"location-dedup/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog logger. Unknown levels fall back to info.
func SetupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// NewMatcher builds the duplicate matcher from the matching settings.
func NewMatcher(cfg config.MatchingConfig) (*duplicate.Matcher, error) {
	aggregation, err := duplicate.ParseAggregation(cfg.Aggregation)
	if err != nil {
		return nil, err
	}

	opts := []duplicate.Option{
		duplicate.WithAggregation(aggregation),
		duplicate.WithMaxResults(cfg.MaxResults),
	}
	if cfg.MinSimilarity > 0 {
		opts = append(opts, duplicate.WithMinSimilarity(cfg.MinSimilarity))
	}
	return duplicate.NewMatcher(opts...), nil
}

// NewAddressClient creates the client of the external address service.
func NewAddressClient(cfg config.AddressAPIConfig) *addressapi.Client {
	return addressapi.NewClient(cfg.BaseURL, addressapi.WithTimeouts(cfg.MatchTimeout, cfg.DatabaseTimeout))
}

// NewLocationSource opens the configured source of existing locations. The returned func releases it.
func NewLocationSource(ctx context.Context, cfg config.Config) (service.LocationSource, func(), error) {
	switch strings.ToLower(cfg.LocationSource) {
	case "", "api":
		return addressapi.NewSource(NewAddressClient(cfg.AddressAPI)), func() {}, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: cannot connect to db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("bootstrap: cannot reach db: %w", err)
		}
		return repository.NewRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown location source %q", cfg.LocationSource)
	}
}

// NewDuplicateService wires the matcher, the address matcher and, when an API key is set, the geocoder.
func NewDuplicateService(cfg config.Config, source service.LocationSource) (*service.DuplicateService, error) {
	matcher, err := NewMatcher(cfg.Matching)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{service.WithAddressMatcher(NewAddressClient(cfg.AddressAPI))}
	if cfg.GoogleMaps.APIKey != "" {
		g, err := geocoder.NewGoogleMapsGeocoder(cfg.GoogleMaps.APIKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithGeocoder(g))
		log.Info().Msg("geocoding of candidates without coordinates enabled")
	}

	return service.NewDuplicateService(source, matcher, opts...), nil
}

// NewReportStore connects to the report bucket and makes sure it exists.
func NewReportStore(ctx context.Context, cfg config.MinIOConfig) (*storage.ReportStore, error) {
	store, err := storage.NewReportStore(storage.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
