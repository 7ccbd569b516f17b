package benchmark

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sixafter/nanoid"
)

// FieldNames are the ten fixed field columns spec.md §3 requires for every
// row.
var FieldNames = []string{
	"field0", "field1", "field2", "field3", "field4",
	"field5", "field6", "field7", "field8", "field9",
}

// CoreOperation is the tagged variant of operations do_transaction chooses
// between.
type CoreOperation int

const (
	OpRead CoreOperation = iota
	OpUpdate
	OpInsert
	OpScan
	OpReadModifyWrite
)

func (op CoreOperation) String() string {
	switch op {
	case OpRead:
		return "Read"
	case OpUpdate:
		return "Update"
	case OpInsert:
		return "Insert"
	case OpScan:
		return "Scan"
	case OpReadModifyWrite:
		return "ReadModifyWrite"
	default:
		return "Unknown"
	}
}

// CoreWorkload composes the generator family into the insert/transaction
// logic spec.md §4.3 describes. One instance is constructed from Properties
// and shared, read-only-by-identity, across every worker; the only mutable
// state it owns lives inside its generators, each of which is independently
// concurrency-safe (CounterGenerator/AcknowledgedCounterGenerator via
// atomics, DiscreteGenerator/UniformLongGenerator/ZipfianGenerator by being
// immutable after construction).
type CoreWorkload struct {
	table string

	fieldLengthGenerator Generator[uint64]
	keySequence          *CounterGenerator
	operationChooser     *DiscreteGenerator[CoreOperation]
	keyChooser           Generator[uint64]
	scanLengthChooser    Generator[uint64]
	insertKeySequence    *AcknowledgedCounterGenerator

	readAllFields  bool
	writeAllFields bool
	dataIntegrity  bool
	orderedInserts bool

	insertionRetryLimit    int
	insertionRetryInterval int // milliseconds

	// seed is the run-global seed; each worker gets its own *rand.Rand
	// derived from seed + its worker index (see rngForWorker), so no two
	// workers ever draw from correlated PRNG state.
	seed int64
}

// NewCoreWorkload constructs a CoreWorkload from parsed Properties and a
// run-global seed. Per spec.md §4.3: field_names is fixed, the field-length
// generator is chosen from FieldLengthDistribution, key_sequence starts at
// InsertStart, transaction_insert_key_sequence starts at 1, and
// operation_chooser only contains strictly-positive-weight operations in
// declaration order (Read, Update, Insert, Scan, ReadModifyWrite).
func NewCoreWorkload(props Properties, seed int64) (*CoreWorkload, error) {
	fieldLenGen, err := fieldLengthGenerator(props)
	if err != nil {
		return nil, err
	}

	opChooser := operationChooser(props)

	keyChooser, err := requestKeyChooser(props)
	if err != nil {
		return nil, err
	}

	wl := &CoreWorkload{
		table:                  DefaultTable,
		fieldLengthGenerator:   fieldLenGen,
		keySequence:            NewCounterGenerator(props.InsertStart),
		operationChooser:       opChooser,
		keyChooser:             keyChooser,
		scanLengthChooser:      NewUniformLongGenerator(1, max64(props.MaxScanLength, 1)),
		insertKeySequence:      NewAcknowledgedCounterGenerator(1),
		readAllFields:          true,
		writeAllFields:         false,
		dataIntegrity:          props.DataIntegrity,
		orderedInserts:         true,
		insertionRetryLimit:    3,
		insertionRetryInterval: 10,
		seed:                   seed,
	}
	return wl, nil
}

// rngForWorker derives a *rand.Rand for workerID, seeded from seed+workerID
// per spec.md §9's "one PRNG per worker, seeded deterministically from a
// run-global seed + worker id" — adapted from the teacher's
// benchmark/runner.go, which seeds each of its writer goroutines with
// rand.NewSource(cfg.Seed + int64(workerID)). The caller owns the returned
// *rand.Rand for the worker's entire lifetime; it is not shared or pooled.
func (w *CoreWorkload) rngForWorker(workerID int) *rand.Rand {
	return rand.New(rand.NewSource(w.seed + int64(workerID)))
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func fieldLengthGenerator(props Properties) (Generator[uint64], error) {
	switch props.NormalizedFieldLengthDistribution() {
	case "constant":
		return NewConstantGenerator(props.FieldLength), nil
	case "uniform":
		return NewUniformLongGenerator(1, props.FieldLength), nil
	case "zipfian":
		return NewZipfianGeneratorRange(1, props.FieldLength), nil
	case "histogram":
		return nil, fmt.Errorf("benchmark: histogram field length distribution is not implemented")
	default:
		return nil, fmt.Errorf("benchmark: unknown field length distribution %q", props.FieldLengthDistribution)
	}
}

func operationChooser(props Properties) *DiscreteGenerator[CoreOperation] {
	var pairs []WeightPair[CoreOperation]
	if props.ReadProportion > 0 {
		pairs = append(pairs, WeightPair[CoreOperation]{Weight: props.ReadProportion, Value: OpRead})
	}
	if props.UpdateProportion > 0 {
		pairs = append(pairs, WeightPair[CoreOperation]{Weight: props.UpdateProportion, Value: OpUpdate})
	}
	if props.InsertProportion > 0 {
		pairs = append(pairs, WeightPair[CoreOperation]{Weight: props.InsertProportion, Value: OpInsert})
	}
	if props.ScanProportion > 0 {
		pairs = append(pairs, WeightPair[CoreOperation]{Weight: props.ScanProportion, Value: OpScan})
	}
	if props.ReadModifyWriteProportion > 0 {
		pairs = append(pairs, WeightPair[CoreOperation]{Weight: props.ReadModifyWriteProportion, Value: OpReadModifyWrite})
	}
	return NewDiscreteGenerator(pairs)
}

// requestKeyChooser implements spec.md §4.3's key_chooser construction. Only
// "uniform" is implemented; "zipfian" and "latest" are left as future work,
// matching the source.
func requestKeyChooser(props Properties) (Generator[uint64], error) {
	switch props.RequestDistribution {
	case "", "uniform":
		insertCount := props.EffectiveInsertCount()
		lo := props.InsertStart
		hi := props.InsertStart + insertCount - 1
		return NewUniformLongGenerator(lo, hi), nil
	case "zipfian", "latest":
		return nil, fmt.Errorf("benchmark: request distribution %q is not yet implemented", props.RequestDistribution)
	default:
		return nil, fmt.Errorf("benchmark: unknown request distribution %q", props.RequestDistribution)
	}
}

// buildRow synthesizes a value for every field in fields for row key. When
// dataIntegrity is off, bytes come from a nanoid-backed alphanumeric
// generator seeded off rng (SPEC_FULL.md's field-value/random-string
// generation section). When it is on, values are instead a deterministic
// function of key and field name (see deterministicFieldValue), so a later
// read can verify the stored bytes weren't corrupted.
func (w *CoreWorkload) buildRow(rng *rand.Rand, key string, fields []string) (Row, error) {
	row := make(Row, len(fields))

	if w.dataIntegrity {
		for _, f := range fields {
			n := int(w.fieldLengthGenerator.Sample(rng))
			row[f] = deterministicFieldValue(key, f, n)
		}
		return row, nil
	}

	gen, err := newFieldValueGenerator(rng)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		n := int(w.fieldLengthGenerator.Sample(rng))
		v, err := randomFieldValue(gen, n)
		if err != nil {
			return nil, err
		}
		row[f] = v
	}
	return row, nil
}

// deterministicFieldValue derives a verifiable value for field on key,
// padded/truncated to length. Used only when data_integrity is enabled.
func deterministicFieldValue(key, field string, length int) string {
	base := field + ":" + key
	if length <= 0 {
		return ""
	}
	if len(base) >= length {
		return base[:length]
	}
	var b strings.Builder
	b.Grow(length)
	for b.Len() < length {
		b.WriteString(base)
	}
	return b.String()[:length]
}

// verifyDataIntegrity checks row's values against deterministicFieldValue
// for key when data_integrity is enabled; a no-op otherwise.
func (w *CoreWorkload) verifyDataIntegrity(key string, row Row) error {
	if !w.dataIntegrity {
		return nil
	}
	for f, v := range row {
		if want := deterministicFieldValue(key, f, len(v)); v != want {
			return fmt.Errorf("%w: table=%s key=%s field=%s", ErrDataIntegrityViolation, w.table, key, f)
		}
	}
	return nil
}

// DoInsert draws the next key from the load-phase key sequence, synthesizes
// a full row, and inserts it. The insert is attempted up to
// insertionRetryLimit times in total, spaced insertionRetryInterval ms apart
// (spec.md §7's recommended redesign over the source's fatal-on-first-error
// behavior). rng is the calling worker's own PRNG, owned for its whole
// lifetime (see rngForWorker).
func (w *CoreWorkload) DoInsert(db Storage, rng *rand.Rand) error {
	raw := w.keySequence.Sample(rng)
	key := dbKey(raw)

	row, err := w.buildRow(rng, key, FieldNames)
	if err != nil {
		return err
	}

	return withInsertRetry(w.insertionRetryLimit, w.insertionRetryInterval, func() error {
		return db.Insert(w.table, key, row)
	})
}

// DoTransaction draws an operation from the operation chooser and dispatches
// it. See spec.md §4.3 for Read; Update/Scan/ReadModifyWrite/Insert are
// SPEC_FULL.md additions designed from YCSB semantics as spec.md §9 directs.
// rng is the calling worker's own PRNG (see rngForWorker).
func (w *CoreWorkload) DoTransaction(db Storage, rng *rand.Rand) error {
	switch w.operationChooser.Sample(rng) {
	case OpRead:
		return w.transactionRead(db, rng)
	case OpUpdate:
		return w.transactionUpdate(db, rng)
	case OpInsert:
		return w.transactionInsert(db, rng)
	case OpScan:
		return w.transactionScan(db, rng)
	case OpReadModifyWrite:
		return w.transactionReadModifyWrite(db, rng)
	default:
		return ErrInvalidOperation
	}
}

func (w *CoreWorkload) nextReadKey(rng *rand.Rand) string {
	keynum := w.keyChooser.Sample(rng)
	return dbKey(keynum)
}

func (w *CoreWorkload) transactionRead(db Storage, rng *rand.Rand) error {
	key := w.nextReadKey(rng)
	out := Row{}
	if !w.readAllFields {
		field := FieldNames[rng.Intn(len(FieldNames))]
		out[field] = ""
	}
	if err := db.Read(w.table, key, out); err != nil {
		return err
	}
	return w.verifyDataIntegrity(key, out)
}

func (w *CoreWorkload) transactionUpdate(db Storage, rng *rand.Rand) error {
	key := w.nextReadKey(rng)
	fields := FieldNames
	if !w.writeAllFields {
		fields = []string{FieldNames[rng.Intn(len(FieldNames))]}
	}
	row, err := w.buildRow(rng, key, fields)
	if err != nil {
		return err
	}
	return db.Insert(w.table, key, row)
}

func (w *CoreWorkload) transactionInsert(db Storage, rng *rand.Rand) error {
	raw := w.insertKeySequence.Sample(rng)
	key := dbKey(raw)
	row, err := w.buildRow(rng, key, FieldNames)
	if err != nil {
		return err
	}
	if err := db.Insert(w.table, key, row); err != nil {
		return err
	}
	w.insertKeySequence.Acknowledge(raw)
	return nil
}

func (w *CoreWorkload) transactionScan(db Storage, rng *rand.Rand) error {
	key := w.nextReadKey(rng)
	length := int(w.scanLengthChooser.Sample(rng))
	_, err := db.Scan(w.table, key, length)
	return err
}

func (w *CoreWorkload) transactionReadModifyWrite(db Storage, rng *rand.Rand) error {
	key := w.nextReadKey(rng)
	out := Row{}
	if !w.readAllFields {
		field := FieldNames[rng.Intn(len(FieldNames))]
		out[field] = ""
	}
	if err := db.Read(w.table, key, out); err != nil {
		return err
	}
	if err := w.verifyDataIntegrity(key, out); err != nil {
		return err
	}

	fields := FieldNames
	if !w.writeAllFields {
		fields = []string{FieldNames[rng.Intn(len(FieldNames))]}
	}
	row, err := w.buildRow(rng, key, fields)
	if err != nil {
		return err
	}
	return db.Insert(w.table, key, row)
}

// RunTag mints a short, process-scoped identifier for this CoreWorkload's
// run, used to annotate log lines the way the teacher's --benchmark-id flag
// tags a run.
func RunTag() string {
	return nanoid.Must()
}
