package benchmark

import (
	"time"

	"github.com/rs/zerolog/log"
)

// withInsertRetry implements spec.md §7's recommended redesign for insert
// errors: make up to limit attempts in total, spaced interval milliseconds
// apart, before giving up and returning the last error. limit <= 0 means
// try exactly once.
func withInsertRetry(limit int, intervalMS int, op func() error) error {
	attempts := limit
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt < attempts-1 {
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("insert failed, retrying")
			time.Sleep(time.Duration(intervalMS) * time.Millisecond)
		}
	}
	return err
}
