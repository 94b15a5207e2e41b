package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"location-dedup/internal/countrycode"

	"github.com/urfave/cli/v2"
)

var codesCmd = &cli.Command{
	Name:      "codes",
	Usage:     "Look up vehicle registration country codes",
	ArgsUsage: "[country]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "list every known code",
		},
	},
	Action: func(ctx *cli.Context) error {
		if ctx.Bool("all") {
			printCodes(os.Stdout)
			return nil
		}
		if ctx.NArg() == 0 {
			return errors.New("missing country name")
		}
		return lookupCode(os.Stdout, ctx.Args().First())
	},
}

func lookupCode(out io.Writer, country string) error {
	code, ok := countrycode.Lookup(country)
	if !ok {
		return fmt.Errorf("no code found for %q", country)
	}
	fmt.Fprintln(out, code)
	return nil
}

func printCodes(out io.Writer) {
	for _, e := range countrycode.All() {
		fmt.Fprintf(out, "%-4s %s\n", e.Code, e.Country)
	}
}
