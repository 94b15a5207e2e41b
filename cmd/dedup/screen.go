package main

import (
	"context"
	"fmt"
	"time"

	"location-dedup/internal/countrycode"
	"location-dedup/internal/duplicate"
	"location-dedup/internal/excel"
	"location-dedup/internal/models"
	"location-dedup/internal/screening"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var screenCmd = &cli.Command{
	Name:    "screen",
	Usage:   "Screen a workbook of candidates against a workbook of existing locations",
	Aliases: []string{"s"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "candidates",
			Required: true,
			Usage:    "specify the input candidates .xlsx",
		},
		&cli.StringFlag{
			Name:     "existing",
			Required: true,
			Usage:    "specify the input existing locations .xlsx",
		},
		&cli.StringFlag{
			Name:     "out",
			Required: true,
			Usage:    "specify the output report .xlsx",
		},
		&cli.StringFlag{
			Name:  "sheet",
			Value: excel.DefaultReportSheet,
			Usage: "specify the report sheet name",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "print progress",
		},
	},
	Action: func(ctx *cli.Context) error {
		matcher, err := newMatcher(ctx)
		if err != nil {
			return err
		}
		return doScreen(ctx.Context, matcher,
			ctx.String("candidates"), ctx.String("existing"), ctx.String("out"), ctx.String("sheet"),
			ctx.Bool("verbose"))
	},
}

func doScreen(ctx context.Context, matcher *duplicate.Matcher,
	candidatesFile, existingFile, outFile, sheet string, verbose bool) error {

	candidates, err := loadWorkbook(candidatesFile)
	if err != nil {
		return fmt.Errorf("load candidates file failed: %w", err)
	}
	existing, err := loadWorkbook(existingFile)
	if err != nil {
		return fmt.Errorf("load existing file failed: %w", err)
	}

	var progress screening.ProgressCallback
	if verbose {
		progress = func(current, total int) {
			fmt.Printf("screened %d/%d\n", current, total)
		}
	}

	results, err := screening.ScreenAll(ctx, matcher, candidates, existing, progress)
	if err != nil {
		return fmt.Errorf("screening failed: %w", err)
	}

	reports := toReports(results, time.Now().UTC())
	if err := excel.WriteReports(outFile, reports, sheet); err != nil {
		return fmt.Errorf("write report file failed: %w", err)
	}

	dupes := 0
	for _, r := range reports {
		if !r.Unique {
			dupes++
		}
	}
	fmt.Printf("%d candidates, %d with possible duplicates\n", len(reports), dupes)
	return nil
}

func toReports(results []screening.Result, checkedAt time.Time) []models.DuplicateReport {
	reports := make([]models.DuplicateReport, 0, len(results))
	for _, r := range results {
		candidate := r.Candidate
		if candidate.CountryCode == "" {
			candidate.CountryCode, _ = countrycode.Lookup(candidate.Country)
		}
		reports = append(reports, models.DuplicateReport{
			ID:        uuid.NewString(),
			Candidate: candidate,
			Matches:   r.Matches,
			Unique:    len(r.Matches) == 0,
			CheckedAt: checkedAt,
		})
	}
	return reports
}
