// Package main implements a CLI for spot-checking exercise reference
// resolution against a running catalog service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/reptrack/service_layer/internal/catalog"
	"github.com/reptrack/service_layer/internal/config"
	"github.com/reptrack/service_layer/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to yaml config file")
	baseURL := flag.String("base-url", "", "Catalog base URL (overrides config)")
	verify := flag.Bool("verify", false, "Existence check only, no display data")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall deadline for the resolution call")
	flag.Parse()

	// Best-effort .env load; absence is fine.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath, *baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log := logging.NewConsole("exercise-resolve", cfg.LogLevel)

	ids, err := parseIDs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage: exercise-resolve [flags] id [id ...]\n%v\n", err)
		os.Exit(2)
	}

	client, err := catalog.New(catalog.Config{
		BaseURL:     cfg.Catalog.BaseURL,
		APIKey:      cfg.Catalog.APIKey,
		MaxAttempts: cfg.Catalog.MaxAttempts,
		BaseDelay:   cfg.Catalog.BaseDelay,
		MaxDelay:    cfg.Catalog.MaxDelay,
		Timeout:     cfg.Catalog.Timeout,
		Logger:      log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *verify {
		res, err := client.VerifyAll(ctx, ids)
		exitOn(err)
		printJSON(res)
		if !res.AllValid {
			os.Exit(1)
		}
		return
	}

	res, err := client.FetchAll(ctx, ids)
	exitOn(err)
	printJSON(res)
	if len(res.Missing) > 0 {
		os.Exit(1)
	}
}

func loadConfig(path, baseURL string) (config.Config, error) {
	if baseURL != "" && os.Getenv("CATALOG_BASE_URL") == "" {
		os.Setenv("CATALOG_BASE_URL", baseURL)
	}
	return config.Load(path)
}

func parseIDs(args []string) ([]catalog.ExerciseID, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one exercise id is required")
	}
	ids := make([]catalog.ExerciseID, 0, len(args))
	for _, arg := range args {
		raw, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || raw <= 0 {
			return nil, fmt.Errorf("invalid exercise id %q", arg)
		}
		ids = append(ids, catalog.ExerciseID(raw))
	}
	return ids, nil
}

func exitOn(err error) {
	if err == nil {
		return
	}
	if catalog.IsRetriesExhausted(err) {
		fmt.Fprintf(os.Stderr, "catalog still throttling: %v\n", err)
		os.Exit(3)
	}
	fmt.Fprintf(os.Stderr, "resolution failed: %v\n", err)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
