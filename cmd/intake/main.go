package main

import (
	"context"

	"location-dedup/internal/bootstrap"
	"location-dedup/internal/config"
	"location-dedup/internal/intake"
	"location-dedup/pkg/graceful"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	bootstrap.SetupLogger(cfg.Log)

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	source, release, err := bootstrap.NewLocationSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open location source")
	}
	defer release()

	duplicateService, err := bootstrap.NewDuplicateService(cfg, source)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create duplicate service")
	}

	var archive intake.Archiver
	if cfg.MinIO.AccessKey != "" {
		store, err := bootstrap.NewReportStore(ctx, cfg.MinIO)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot open report store")
		}
		archive = store
	} else {
		log.Warn().Msg("minio credentials not set, reports are not archived")
	}

	reader := intake.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.IntakeTopic, cfg.Kafka.GroupID)
	writer := intake.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.ReportTopic)
	worker := intake.NewWorker(reader, writer, duplicateService, archive)
	defer func() {
		if err := worker.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka clients")
		}
	}()

	log.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("intake_topic", cfg.Kafka.IntakeTopic).
		Str("report_topic", cfg.Kafka.ReportTopic).
		Msg("intake worker started")

	if err := worker.Run(ctx); err != nil {
		log.Error().Err(err).Msg("intake worker stopped with error")
	}
}
