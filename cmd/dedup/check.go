package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"location-dedup/internal/addressapi"
	"location-dedup/internal/config"
	"location-dedup/internal/duplicate"
	"location-dedup/internal/excel"
	"location-dedup/internal/models"
	"location-dedup/internal/service"

	"github.com/urfave/cli/v2"
)

var checkCmd = &cli.Command{
	Name:    "check",
	Usage:   "Check one candidate location for duplicates",
	Aliases: []string{"c"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "candidate",
			Required: true,
			Usage:    "specify the input candidate.json",
		},
		&cli.StringFlag{
			Name:  "existing",
			Usage: "specify the existing locations .xlsx (default: fetch from the address service)",
		},
		&cli.StringFlag{
			Name:  "api",
			Usage: "specify the address service base url (default: from configs/app.yaml)",
		},
	},
	Action: func(ctx *cli.Context) error {
		matcher, err := newMatcher(ctx)
		if err != nil {
			return err
		}

		var source service.LocationSource
		if file := ctx.String("existing"); file != "" {
			locs, err := loadWorkbook(file)
			if err != nil {
				return fmt.Errorf("load existing file failed: %w", err)
			}
			source = staticSource(locs)
		} else {
			baseURL := ctx.String("api")
			if baseURL == "" {
				cfg, err := config.LoadConfig("configs")
				if err != nil {
					return err
				}
				baseURL = cfg.AddressAPI.BaseURL
			}
			source = addressapi.NewSource(addressapi.NewClient(baseURL))
		}

		return doCheck(ctx.Context, ctx.String("candidate"), service.NewDuplicateService(source, matcher), os.Stdout)
	},
}

func newMatcher(ctx *cli.Context) (*duplicate.Matcher, error) {
	aggregation, err := duplicate.ParseAggregation(ctx.String("aggregation"))
	if err != nil {
		return nil, err
	}
	minSimilarity := ctx.Float64("min-similarity")
	if !(minSimilarity >= 0.0 && minSimilarity <= 1.0) {
		return nil, errors.New("invalid min-similarity")
	}
	return duplicate.NewMatcher(
		duplicate.WithAggregation(aggregation),
		duplicate.WithMinSimilarity(minSimilarity),
	), nil
}

// staticSource serves a fixed set of existing locations.
type staticSource []models.Location

func (s staticSource) ExistingLocations(context.Context) ([]models.Location, error) {
	return s, nil
}

func doCheck(ctx context.Context, candidateFile string, svc *service.DuplicateService, out io.Writer) error {
	candidate, err := loadCandidate(candidateFile)
	if err != nil {
		return fmt.Errorf("load candidate file failed: %w", err)
	}

	report, err := svc.Check(ctx, candidate)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func loadCandidate(file string) (models.Location, error) {
	var candidate models.Location

	data, err := os.ReadFile(file)
	if err != nil {
		return candidate, err
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&candidate); err != nil {
		return candidate, err
	}
	return candidate, nil
}

func loadWorkbook(file string) ([]models.Location, error) {
	f, err := excel.OpenFile(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return excel.ReadLocations(f, "")
}
