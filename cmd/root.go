// Package cmd wires the ycsb-bench CLI: cobra flag parsing feeding
// benchmark.RunBenchmark. Adapted from the teacher's cmd/run.go flag-heavy
// style, but collapsed onto a single root command — spec.md §6 describes
// "load"/"run" as trailing positional operands executed in sequence
// against one constructed workload, not as separate cobra subcommands the
// way the teacher's "run" subcommand worked.
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tclemos/ycsb-bench/benchmark"
)

var (
	workloadFile string
	threads      int
	seed         int64
	logFormat    string

	databaseType string

	sqlitePath     string
	pebblePath     string
	blockCacheSize int64
	redisAddr      string
	redisDB        int

	cacheEnabled bool
	cacheMaxCost int64
)

var rootCmd = &cobra.Command{
	Use:   "ycsb-bench [flags] COMMAND [COMMAND...]",
	Short: "A YCSB-style workload generator and benchmark driver",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := benchmark.Config{
			WorkloadFile: workloadFile,
			Commands:     args,
			Threads:      threads,
			Seed:         seed,
			LogFormat:    logFormat,
			Storage: benchmark.StorageConfig{
				Type:           benchmark.StorageType(databaseType),
				SQLitePath:     sqlitePath,
				PebblePath:     pebblePath,
				BlockCacheSize: blockCacheSize,
				RedisAddr:      redisAddr,
				RedisDB:        redisDB,
				CacheEnabled:   cacheEnabled,
				CacheMaxCost:   cacheMaxCost,
			},
		}
		if err := benchmark.RunBenchmark(cfg); err != nil {
			log.Fatalf("benchmark failed: %v", err)
		}
	},
}

// Execute runs the root command; main.go's sole responsibility is calling
// this after configuring the default logger.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&workloadFile, "workload", "w", "", "path to the workload properties file (required)")
	rootCmd.Flags().IntVarP(&threads, "threads", "t", 1, "number of parallel worker threads per command")
	rootCmd.Flags().Int64Var(&seed, "seed", 42, "seed for deterministic key/field generation")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "console", "log format: 'json' or 'console'")

	rootCmd.Flags().StringVar(&databaseType, "database", "sqlite", "storage backend: 'sqlite', 'pebble', or 'redis'")

	rootCmd.Flags().StringVar(&sqlitePath, "sqlite-path", "ycsb-bench.db", "sqlite: path to the database file")

	rootCmd.Flags().StringVar(&pebblePath, "pebble-path", "dbs/pebble/ycsb-bench", "pebble: path to store database files")
	rootCmd.Flags().Int64Var(&blockCacheSize, "block-cache-size", 8<<20, "pebble: block cache size in bytes (negative disables it)")

	rootCmd.Flags().StringVar(&redisAddr, "redis-addr", "127.0.0.1:6379", "redis: server address")
	rootCmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis: logical database index")

	rootCmd.Flags().BoolVar(&cacheEnabled, "cache", false, "wrap the storage backend in a ristretto read-through cache")
	rootCmd.Flags().Int64Var(&cacheMaxCost, "cache-max-cost", 1<<26, "maximum cache cost in bytes, when --cache is set")

	_ = rootCmd.MarkFlagRequired("workload")
}
