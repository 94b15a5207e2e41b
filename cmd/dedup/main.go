package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "dedup",
		Usage: "Utility for screening delivery locations for duplicates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "aggregation",
				Value: "factor_count",
				Usage: "specify how rule scores are combined (factor_count or weight)",
			},
			&cli.Float64Flag{
				Name:  "min-similarity",
				Value: 0.5,
				Usage: "specify the similarity a match must exceed (0.0-1.0)",
			},
		},
		Commands: []*cli.Command{
			checkCmd,
			screenCmd,
			codesCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}
