package benchmark

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Run orchestrates the full benchmark lifecycle: spec.md §4.4's Driver.
// db.Init() runs once before the first command; each command ("load" or
// "run") spawns nThreads workers, each executing
// operationCount/nThreads iterations (remainder iterations are dropped, per
// spec.md §4.4 — this keeps per-worker counts equal) of DoInsert (load) or
// DoTransaction (run); workers are joined before moving to the next
// command. Adapted from the teacher's benchmark/runner.go worker fan-out,
// generalized from a single hand-rolled WaitGroup+atomic-counter pattern to
// errgroup.WithContext so that a fatal per-worker error (spec.md §7's
// propagation policy) cancels its siblings and aborts the run.
func Run(db Storage, commands []string, wl *CoreWorkload, operationCount, nThreads int) error {
	if len(commands) == 0 {
		return fmt.Errorf("benchmark: no command specified")
	}
	if nThreads <= 0 {
		return fmt.Errorf("benchmark: thread count must be positive")
	}

	if err := db.Init(); err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	for _, cmd := range commands {
		if err := runCommand(db, cmd, wl, operationCount, nThreads); err != nil {
			return fmt.Errorf("command %q: %w", cmd, err)
		}
	}
	return nil
}

func runCommand(db Storage, cmd string, wl *CoreWorkload, operationCount, nThreads int) error {
	var worker func(Storage, *rand.Rand) error
	switch cmd {
	case "load":
		worker = wl.DoInsert
	case "run":
		worker = wl.DoTransaction
	default:
		return fmt.Errorf("invalid command: %s", cmd)
	}

	perWorker := operationCount / nThreads
	log.Info().Str("command", cmd).Int("threads", nThreads).Int("per_worker", perWorker).Msg("starting command")

	start := time.Now()

	group, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < nThreads; i++ {
		workerID := i
		group.Go(func() error {
			rng := wl.rngForWorker(workerID)
			for j := 0; j < perWorker; j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := worker(db, rng); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	reportOverall(nil, nThreads, elapsed, operationCount)
	return nil
}

// reportOverall prints the exact, machine-parseable report lines spec.md §6
// requires, to out (stdout when out is nil). These are deliberately written
// with fmt, never zerolog: external YCSB-compatible tooling parses this
// format, so it must stay free of structured-log framing.
func reportOverall(out io.Writer, nThreads int, elapsed time.Duration, operationCount int) {
	if out == nil {
		out = stdout
	}
	runtimeMS := elapsed.Milliseconds()
	throughput := float64(operationCount) / (float64(runtimeMS) / 1000.0)

	fmt.Fprintf(out, "[OVERALL], ThreadCount, %d\n", nThreads)
	fmt.Fprintf(out, "[OVERALL], RunTime(ms), %d\n", runtimeMS)
	fmt.Fprintf(out, "[OVERALL], Throughput(ops/sec), %f\n", throughput)
}
