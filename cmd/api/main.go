package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "location-dedup/docs"
	"location-dedup/internal/bootstrap"
	"location-dedup/internal/config"
	"location-dedup/internal/handler"
	"location-dedup/internal/service"
	"location-dedup/pkg/graceful"

	"github.com/rs/zerolog/log"
)

// @title        Location Dedup API
// @version      1.0
// @description  Duplicate detection for customer delivery locations.
// @BasePath     /
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	bootstrap.SetupLogger(config.Log)

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	// Existing locations come from the address service or the PostgreSQL snapshot
	source, release, err := bootstrap.NewLocationSource(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open location source")
	}
	defer release()

	// Initialize layers
	duplicateService, err := bootstrap.NewDuplicateService(config, source)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create duplicate service")
	}
	catalogService := service.NewCatalogService(source)

	duplicateHandler := handler.NewDuplicateHandler(duplicateService)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           handler.NewRouter(duplicateHandler, catalogHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Str("source", config.LocationSource).Msg("starting api server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("api server stopped")
}
