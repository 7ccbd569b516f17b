package benchmark

import "os"

// stdout is the sink for spec.md §6's [OVERALL] report lines. Kept as an
// indirection so tests can substitute a buffer without touching the real
// file descriptor.
var stdout = os.Stdout
