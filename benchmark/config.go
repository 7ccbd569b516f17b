package benchmark

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is the benchmark entry point's parameters, assembled from CLI
// flags by cmd/root.go. It plays the role the teacher's benchmark.Config
// (cmd/run.go) plays, generalized from a single-backend Pebble benchmark to
// the multi-command, multi-backend YCSB-style driver spec.md describes.
type Config struct {
	WorkloadFile string
	Commands     []string
	Threads      int
	Seed         int64
	LogFormat    string

	Storage StorageConfig
}

// RunBenchmark loads the workload file, constructs storage and the
// CoreWorkload, and drives spec.md §4.4's Run over cfg.Commands.
func RunBenchmark(cfg Config) error {
	setupLog(cfg)

	props, err := LoadProperties(cfg.WorkloadFile)
	if err != nil {
		return fmt.Errorf("load workload file: %w", err)
	}

	tag := RunTag()
	log.Info().
		Str("run_tag", tag).
		Str("workload_file", cfg.WorkloadFile).
		Uint64("operation_count", props.OperationCount).
		Int("threads", cfg.Threads).
		Int64("seed", cfg.Seed).
		Str("database", string(cfg.Storage.Type)).
		Strs("commands", cfg.Commands).
		Msg("starting benchmark")

	db, err := NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("construct storage: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("error closing storage")
		}
	}()

	wl, err := NewCoreWorkload(props, cfg.Seed)
	if err != nil {
		return fmt.Errorf("construct workload: %w", err)
	}

	start := time.Now()
	if err := Run(db, cfg.Commands, wl, int(props.OperationCount), cfg.Threads); err != nil {
		return err
	}

	log.Info().Str("run_tag", tag).Dur("total_elapsed", time.Since(start)).Msg("benchmark complete")
	return nil
}

func setupLog(cfg Config) {
	if strings.EqualFold(cfg.LogFormat, "json") {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		log.Logger = log.Output(os.Stderr)
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}
