package benchmark

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end load: spec.md §8 — operationcount=1000, fieldlength=10,
// fieldlengthdistribution=constant, readproportion=0 inserts exactly 1000
// distinct rows, each with all ten fields at exactly length 10.
func TestCoreWorkloadLoadEndToEnd(t *testing.T) {
	props := defaultProperties()
	props.FieldLength = 10
	props.FieldLengthDistribution = "constant"
	props.ReadProportion = 0

	wl, err := NewCoreWorkload(props, 5)
	require.NoError(t, err)

	db := newMockStorage()
	require.NoError(t, runCommand(db, "load", wl, 1000, 10))

	assert.EqualValues(t, 1000, db.insertCount.Load())
	require.Equal(t, 1000, db.rowCount(DefaultTable))

	for key, row := range db.rows[DefaultTable] {
		assert.NotEmpty(t, key)
		assert.Len(t, row, len(FieldNames))
		for _, f := range FieldNames {
			assert.Len(t, row[f], 10)
		}
	}
}

// End-to-end run (read-only): spec.md §8 — readproportion=1.0,
// record_count=1000, insert_start=0, requestdistribution=uniform,
// operationcount=500 issues exactly 500 reads, each against a key in the
// fnv1a64 image of [0,999].
func TestCoreWorkloadRunReadOnlyEndToEnd(t *testing.T) {
	props := defaultProperties()
	props.RecordCount = 1000
	props.InsertStart = 0
	props.ReadProportion = 1.0
	props.UpdateProportion = 0
	props.RequestDistribution = "uniform"

	wl, err := NewCoreWorkload(props, 6)
	require.NoError(t, err)

	db := newMockStorage()
	// Load keys 0..999 first so every read key exists in mockStorage.
	require.NoError(t, runCommand(db, "load", wl, 1000, 10))
	require.NoError(t, runCommand(db, "run", wl, 500, 5))

	assert.EqualValues(t, 500, db.readCount.Load())
	require.Len(t, db.readKeys, 500)

	validKeys := make(map[string]bool, 1000)
	for i := uint64(0); i < 1000; i++ {
		validKeys[dbKey(i)] = true
	}
	for _, k := range db.readKeys {
		assert.True(t, validKeys[k], "read key %q outside the expected key image", k)
	}
}

// End-to-end update-only run: updateproportion=1.0 drives every transaction
// through transactionUpdate, which must call Storage.Insert (upsert) for
// every operation and never touch Storage.Read.
func TestCoreWorkloadRunUpdateOnlyEndToEnd(t *testing.T) {
	props := defaultProperties()
	props.RecordCount = 200
	props.ReadProportion = 0
	props.UpdateProportion = 1.0
	props.RequestDistribution = "uniform"

	wl, err := NewCoreWorkload(props, 20)
	require.NoError(t, err)

	db := newMockStorage()
	// Seed rows first so the update keys already exist in mockStorage.
	require.NoError(t, runCommand(db, "load", wl, 200, 4))
	baseline := db.insertCount.Load()

	require.NoError(t, runCommand(db, "run", wl, 300, 3))

	assert.EqualValues(t, 0, db.readCount.Load())
	assert.EqualValues(t, baseline+300, db.insertCount.Load())
}

// End-to-end scan-only run: scanproportion=1.0 drives every transaction
// through transactionScan, which must call Storage.Scan exactly once per
// operation and never Read or Insert.
func TestCoreWorkloadRunScanOnlyEndToEnd(t *testing.T) {
	props := defaultProperties()
	props.RecordCount = 200
	props.ReadProportion = 0
	props.UpdateProportion = 0
	props.ScanProportion = 1.0
	props.MaxScanLength = 10
	props.RequestDistribution = "uniform"

	wl, err := NewCoreWorkload(props, 21)
	require.NoError(t, err)

	db := newMockStorage()
	require.NoError(t, runCommand(db, "load", wl, 200, 4))

	require.NoError(t, runCommand(db, "run", wl, 150, 5))

	assert.EqualValues(t, 0, db.readCount.Load())
	assert.EqualValues(t, 200, db.insertCount.Load())
}

// End-to-end transaction-insert-only run: insertproportion=1.0 drives every
// transaction through transactionInsert, which must call Storage.Insert and
// acknowledge its key on success, advancing the acknowledged-counter
// watermark.
func TestCoreWorkloadRunInsertOnlyEndToEnd(t *testing.T) {
	props := defaultProperties()
	props.ReadProportion = 0
	props.UpdateProportion = 0
	props.InsertProportion = 1.0

	wl, err := NewCoreWorkload(props, 22)
	require.NoError(t, err)

	db := newMockStorage()
	require.NoError(t, runCommand(db, "run", wl, 400, 4))

	assert.EqualValues(t, 400, db.insertCount.Load())
	assert.EqualValues(t, 0, db.readCount.Load())
	require.Equal(t, 400, db.rowCount(DefaultTable))
}

// End-to-end read-modify-write-only run: readmodifywriteproportion=1.0
// drives every transaction through a Read immediately followed by an
// Insert of the same key.
func TestCoreWorkloadRunReadModifyWriteOnlyEndToEnd(t *testing.T) {
	props := defaultProperties()
	props.RecordCount = 200
	props.ReadProportion = 0
	props.UpdateProportion = 0
	props.ReadModifyWriteProportion = 1.0
	props.RequestDistribution = "uniform"

	wl, err := NewCoreWorkload(props, 23)
	require.NoError(t, err)

	db := newMockStorage()
	require.NoError(t, runCommand(db, "load", wl, 200, 4))
	baseline := db.insertCount.Load()

	require.NoError(t, runCommand(db, "run", wl, 120, 4))

	assert.EqualValues(t, 120, db.readCount.Load())
	assert.EqualValues(t, baseline+120, db.insertCount.Load())
}

// Data integrity: when enabled, a read of a loaded row must verify; a read
// of a row with a value swapped out from under it must fail.
func TestCoreWorkloadDataIntegrityDetectsCorruption(t *testing.T) {
	props := defaultProperties()
	props.RecordCount = 10
	props.FieldLength = 10
	props.DataIntegrity = true
	props.ReadProportion = 1.0
	props.UpdateProportion = 0
	props.RequestDistribution = "uniform"

	wl, err := NewCoreWorkload(props, 24)
	require.NoError(t, err)

	db := newMockStorage()
	require.NoError(t, runCommand(db, "load", wl, 10, 1))
	require.NoError(t, runCommand(db, "run", wl, 20, 1))

	// Corrupt every stored field, then expect the next read to fail.
	for _, row := range db.rows[DefaultTable] {
		for f := range row {
			row[f] = "corrupted"
		}
	}
	err = runCommand(db, "run", wl, 20, 1)
	assert.ErrorIs(t, err, ErrDataIntegrityViolation)
}

// Proportion mix: spec.md §8 — readproportion=0.5, updateproportion=0.5
// (every other proportion 0) makes the operation chooser emit both Read and
// Update, and nothing else.
func TestOperationChooserMixHonorsOnlyPositiveProportions(t *testing.T) {
	props := defaultProperties()
	props.ReadProportion = 0.5
	props.UpdateProportion = 0.5
	props.InsertProportion = 0
	props.ScanProportion = 0
	props.ReadModifyWriteProportion = 0

	chooser := operationChooser(props)
	rng := rand.New(rand.NewSource(8))

	seen := make(map[CoreOperation]bool)
	for i := 0; i < 2000; i++ {
		seen[chooser.Sample(rng)] = true
	}

	assert.Len(t, seen, 2)
	assert.True(t, seen[OpRead])
	assert.True(t, seen[OpUpdate])
	assert.False(t, seen[OpInsert])
	assert.False(t, seen[OpScan])
	assert.False(t, seen[OpReadModifyWrite])
}

func TestCoreOperationString(t *testing.T) {
	assert.Equal(t, "Read", OpRead.String())
	assert.Equal(t, "Update", OpUpdate.String())
	assert.Equal(t, "Insert", OpInsert.String())
	assert.Equal(t, "Scan", OpScan.String())
	assert.Equal(t, "ReadModifyWrite", OpReadModifyWrite.String())
	assert.Equal(t, "Unknown", CoreOperation(99).String())
}
