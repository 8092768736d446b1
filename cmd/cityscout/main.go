// Command cityscout runs a single city analysis from the terminal.
//
// Usage:
//
//	go run ./cmd/cityscout -location "Tampa, FL"
//	go run ./cmd/cityscout -city tampa -state fl -format json
//
// Census and BLS credentials come from the same environment variables the
// server reads (CENSUS_API_KEY, BLS_API_KEY).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cityscout-service/internal/adapter/bls"
	"github.com/couchcryptid/cityscout-service/internal/adapter/census"
	"github.com/couchcryptid/cityscout-service/internal/analyzer"
	"github.com/couchcryptid/cityscout-service/internal/config"
	"github.com/couchcryptid/cityscout-service/internal/domain"
	"github.com/couchcryptid/cityscout-service/internal/format"
	"github.com/couchcryptid/cityscout-service/internal/observability"
)

func main() {
	location := flag.String("location", "", `city and state as one string, e.g. "Tampa, FL"`)
	city := flag.String("city", "", "city name")
	state := flag.String("state", "", "two-letter state code or full state name")
	outFormat := flag.String("format", "cli", "output format: cli, json, or csv")
	flag.Parse()

	if code := run(*location, *city, *state, *outFormat); code != 0 {
		os.Exit(code)
	}
}

func run(location, city, state, outFormat string) int {
	if location != "" {
		parsedCity, parsedState, ok := domain.ParseLocation(location)
		if !ok || parsedState == "" {
			fmt.Fprintln(os.Stderr, `location must look like "City, ST"`)
			return 2
		}
		city, state = parsedCity, parsedState
	}
	if city == "" || state == "" {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		return 1
	}

	// One-shot invocation: keep log noise down unless asked for more.
	logger := observability.NewLogger(cfg.LogLevel, "text")
	metrics := observability.NewMetricsForTesting()

	censusClient := census.NewClient(cfg.CensusAPIKey, cfg.UpstreamTimeout, logger, metrics)
	censusClient.SetBaseURL(cfg.CensusBaseURL)
	blsClient := bls.NewClient(cfg.BLSAPIKey, cfg.UpstreamTimeout, logger, metrics)
	blsClient.SetBaseURL(cfg.BLSBaseURL)

	a := analyzer.New(censusClient, blsClient, nil, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := a.Analyze(ctx, city, state)
	if !result.Success {
		fmt.Fprintln(os.Stderr, "analysis failed:", result.Error)
		printSuggestions(domain.SuggestCorrections(city, state))
		return 1
	}

	switch outFormat {
	case "cli":
		fmt.Println(format.CLI(*result.Data))
	case "json":
		fmt.Println(format.JSON(*result.Data))
	case "csv":
		fmt.Println(format.CSV(*result.Data))
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (want cli, json, or csv)\n", outFormat)
		return 2
	}
	return 0
}

func printSuggestions(s domain.Suggestions) {
	if len(s.City) > 0 {
		fmt.Fprintln(os.Stderr, "did you mean one of these cities?")
		for _, c := range s.City {
			fmt.Fprintln(os.Stderr, "  -", c)
		}
	}
	if len(s.State) > 0 {
		fmt.Fprintln(os.Stderr, "did you mean one of these states?")
		for _, st := range s.State {
			fmt.Fprintln(os.Stderr, "  -", st)
		}
	}
}
