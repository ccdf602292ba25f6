// Package main is the entry point for the book demo server.
// It wires together configuration, the book store, and the HTTP router.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/aoideee/bookdemo/internal/config"
	"github.com/aoideee/bookdemo/internal/data"
)

// appVersion is the current version of the API, shown in logs and /healthcheck.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config *config.Config // Settings from defaults, config file and flags
	logger *slog.Logger   // Structured logger that writes to stdout
	models data.Models    // Shared book store
}

// main parses settings, seeds the book store, and runs the HTTP server
// until it is asked to stop.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	settings, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	appInstance := &applicationDependencies{
		config: settings,
		logger: logger,
		models: data.NewModels(settings.Books),
	}

	count, err := appInstance.models.Books.Len(context.Background())
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info("book store seeded", "books", count)

	if err := appInstance.serve(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
