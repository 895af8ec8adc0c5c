package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"safesearch-analyzer/internal/analyzer"
	"safesearch-analyzer/internal/config"
	"safesearch-analyzer/internal/discovery"
	"safesearch-analyzer/internal/ioformats"
	"safesearch-analyzer/pkg/logger"
)

func main() {
	query := flag.String("query", "", "search query to discover pages for")
	in := flag.String("input", "", "analyze URLs from a file instead of searching (csv with 'url' column or ndjson)")
	out := flag.String("output", "", "output file (default stdout)")
	format := flag.String("format", "ndjson", "output format: ndjson (one result per line) or json (full report)")
	envFile := flag.String("env", "", "optional .env file")
	flag.Parse()

	if *query == "" && *in == "" {
		fmt.Fprintln(os.Stderr, "missing --query or --input")
		os.Exit(2)
	}
	if *format != "ndjson" && *format != "json" {
		fmt.Fprintln(os.Stderr, "--format must be ndjson or json")
		os.Exit(2)
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	l := logger.NewWithLevel(os.Stderr, cfg.LogLevel)

	var prov discovery.Provider
	if *in != "" {
		prov = discovery.File{Path: *in}
	}
	an, err := analyzer.FromConfig(cfg, prov, l)
	if err != nil {
		fmt.Fprintln(os.Stderr, "setup:", err)
		os.Exit(1)
	}
	defer an.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	label := *query
	if label == "" {
		label = *in
	}
	report, err := an.Run(ctx, label)
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create output:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if *format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	} else {
		err = ioformats.WriteNDJSON(w, report.Results)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "write output:", err)
		os.Exit(1)
	}
}
