package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"location-dedup/internal/addressapi"
	"location-dedup/internal/bootstrap"
	"location-dedup/internal/config"
	"location-dedup/internal/countrycode"
	"location-dedup/internal/excel"
	"location-dedup/internal/models"
	"location-dedup/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("file", "", "Path to the .xlsx or .csv file to import")
	sheet := flag.String("sheet", "", "Sheet to read from an .xlsx file (default: active sheet)")
	fromAPI := flag.Bool("from-api", false, "Snapshot the remote address database instead of reading a file")
	flag.Parse()

	if *file == "" && !*fromAPI {
		fmt.Println("Error: --file or --from-api is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	bootstrap.SetupLogger(cfg.Log)

	ctx := context.Background()

	var locations []models.Location
	if *fromAPI {
		log.Info().Str("base_url", cfg.AddressAPI.BaseURL).Msg("starting import from address service")
		locations, err = addressapi.NewSource(bootstrap.NewAddressClient(cfg.AddressAPI)).ExistingLocations(ctx)
	} else {
		log.Info().Str("file", *file).Msg("starting import from file")
		locations, err = readFile(*file, *sheet)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read locations")
	}
	assignCountryCodes(locations)
	log.Info().Int("records", len(locations)).Msg("parsed records")

	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	n, err := repo.ReplaceSnapshot(ctx, locations)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot import records")
	}

	if err := verifyImport(ctx, repo, len(locations)); err != nil {
		log.Fatal().Err(err).Msg("import verification failed")
	}

	log.Info().Int64("records", n).Msg("successfully imported snapshot")
}

func readFile(path, sheet string) ([]models.Location, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excel.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()
		return excel.ReadLocations(f, sheet)
	case ".csv":
		return parseCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .xlsx or .csv", filepath.Ext(path))
	}
}

func parseCSV(filePath string) ([]models.Location, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	var rows [][]string
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to read header: file is empty")
	}
	return excel.LocationsFromRows(rows), nil
}

func assignCountryCodes(locations []models.Location) {
	for i := range locations {
		if locations[i].CountryCode != "" {
			continue
		}
		if code, ok := countrycode.Lookup(locations[i].Country); ok {
			locations[i].CountryCode = code
		}
	}
}

func verifyImport(ctx context.Context, repo *repository.Repository, expectedCount int) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	if count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}
	return nil
}
