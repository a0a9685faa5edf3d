// pastelens reads a free-form text blob from stdin (a clipboard dump, raw
// HTTP log lines, captured POST bodies), extracts every URL-like and
// query-like substring, interprets the queries as OpenID authentication
// messages, and prints a grouped report to stdout.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/wadahiro/pastelens/internal/config"
	"github.com/wadahiro/pastelens/internal/report"
	"github.com/wadahiro/pastelens/internal/scan"
)

func main() {
	cfg := config.Default()
	if path := os.Getenv("PASTELENS_CONFIG"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			slog.Error("Failed to load config", "error", err)
			os.Exit(1)
		}
	}
	setupLogger(cfg.LogLevel)

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		slog.Error("Failed to read input", "error", err)
		os.Exit(1)
	}

	scanner := scan.NewScanner(cfg.ExtraTLDs)
	queries, failures := scanner.ExtractQueries(string(input))

	entries := make([]string, 0, len(queries))
	for _, q := range queries {
		entries = append(entries, report.BuildEntry(q, cfg.PayloadInspection()))
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	switch {
	case len(entries) > 0:
		fmt.Fprintln(out, strings.Join(entries, "\n\n"))
	case len(failures) > 0:
		for _, f := range failures {
			fmt.Fprintln(out, f.Error())
		}
	}
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}
