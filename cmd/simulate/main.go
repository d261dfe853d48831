// Command simulate drives the market kernel end to end: load config, run
// to the horizon, write the event log as NDJSON, optionally serve it for
// inspection. Argument parsing, file I/O, and the inspect server are
// glue around the kernel, not part of it.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"os"

	"github.com/aristath/lloyds-sim/internal/config"
	"github.com/aristath/lloyds-sim/internal/inspect"
	"github.com/aristath/lloyds-sim/internal/kernel"
	"github.com/aristath/lloyds-sim/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the simulation config YAML")
	outputPath := flag.String("output", "", "NDJSON output path (overrides config's output_path)")
	logLevel := flag.String("log-level", "", "log level override: debug|info|warn|error")
	pretty := flag.Bool("pretty", true, "pretty-print logs to stdout")
	serve := flag.Bool("serve", false, "serve the completed run's event log over HTTP for inspection")
	servePort := flag.Int("serve-port", 8080, "port for --serve")
	flag.Parse()

	log := logger.New(logger.Config{Level: "info", Pretty: *pretty})
	logger.SetGlobalLogger(log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if cfg.LogLevel != "" {
		log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: *pretty})
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "events.ndjson"
	}

	log.Info().Uint64("seed", cfg.Seed).Uint32("years", cfg.Years).Msg("starting simulation run")

	k := kernel.New(cfg, log)
	k.Start()
	k.Run()

	if err := writeNDJSON(cfg.OutputPath, k); err != nil {
		log.Fatal().Err(err).Str("path", cfg.OutputPath).Msg("failed to write event log")
	}
	log.Info().Int("entries", k.Log().Len()).Str("path", cfg.OutputPath).Msg("run complete")

	if *serve {
		srv := inspect.New(log, k.Log(), *servePort)
		if err := srv.ListenAndServe(); err != nil {
			log.Fatal().Err(err).Msg("inspect server exited")
		}
	}
}

func writeNDJSON(path string, k *kernel.Kernel) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	enc := json.NewEncoder(w)
	for _, entry := range k.Log().Entries() {
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return nil
}
