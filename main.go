package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tclemos/ycsb-bench/cmd"
)

func main() {
	// Console logger on stderr until RunBenchmark applies --log-format.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cmd.Execute()
}
