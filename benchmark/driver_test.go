package benchmark

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProperties() Properties {
	p := defaultProperties()
	p.FieldLength = 10
	p.FieldLengthDistribution = "constant"
	return p
}

// Driver reporting: spec.md §8 — operation_count=100, n_threads=10 drives
// exactly 100 inserts (the truncation rule: perWorker = 100/10 = 10, times
// 10 threads). The ThreadCount report line is checked separately, by
// TestReportOverallFormat.
func TestRunLoadTruncatesToPerWorkerCount(t *testing.T) {
	props := testProperties()
	props.ReadProportion = 0
	props.UpdateProportion = 0
	props.InsertProportion = 1

	wl, err := NewCoreWorkload(props, 1)
	require.NoError(t, err)

	db := newMockStorage()
	err = runCommand(db, "load", wl, 100, 10)
	require.NoError(t, err)

	assert.EqualValues(t, 100, db.insertCount.Load())
}

// Truncation drops the remainder: operationCount not evenly divisible by
// nThreads loses the leftover iterations rather than imbalancing workers.
func TestRunLoadDropsRemainder(t *testing.T) {
	props := testProperties()
	wl, err := NewCoreWorkload(props, 2)
	require.NoError(t, err)

	db := newMockStorage()
	// 103/10 = 10 per worker, so only 100 of the 103 requested run.
	err = runCommand(db, "load", wl, 103, 10)
	require.NoError(t, err)

	assert.EqualValues(t, 100, db.insertCount.Load())
}

func TestReportOverallFormat(t *testing.T) {
	var buf bytes.Buffer
	reportOverall(&buf, 10, 250*time.Millisecond, 100)

	out := buf.String()
	assert.Contains(t, out, "[OVERALL], ThreadCount, 10\n")
	assert.Contains(t, out, "[OVERALL], RunTime(ms), 250\n")
	assert.Contains(t, out, "[OVERALL], Throughput(ops/sec), ")
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	props := testProperties()
	wl, err := NewCoreWorkload(props, 3)
	require.NoError(t, err)

	db := newMockStorage()
	err = Run(db, []string{"bogus"}, wl, 10, 1)
	assert.Error(t, err)
}

func TestRunRejectsNonPositiveThreads(t *testing.T) {
	props := testProperties()
	wl, err := NewCoreWorkload(props, 4)
	require.NoError(t, err)

	db := newMockStorage()
	err = Run(db, []string{"load"}, wl, 10, 0)
	assert.Error(t, err)
}
