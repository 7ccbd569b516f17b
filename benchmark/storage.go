package benchmark

import (
	"errors"
)

// PrimaryKeyColumn is the primary key column name every backend uses for
// the row identity, per spec.md §6.
const PrimaryKeyColumn = "y_id"

// DefaultTable is the table CoreWorkload operates against.
const DefaultTable = "usertable"

// Row is a field-name -> value mapping for one record.
type Row map[string]string

// Storage is the abstract capability CoreWorkload consumes. It generalizes
// spec.md §4.5's 3-method contract (Init/Insert/Read) with the Scan and
// Delete methods SPEC_FULL.md adds so that the Scan, Update and
// ReadModifyWrite operations have something real to call. Implementations
// must be safe for concurrent use by many workers.
type Storage interface {
	// Init performs idempotent schema setup. Called once per process before
	// any other method.
	Init() error

	// Insert upserts a row by primary key. fields may be a subset of the
	// row's columns (Update uses this to rewrite only some fields).
	Insert(table, key string, fields Row) error

	// Read populates out with field values for key. If out is empty on
	// entry, every field is populated; otherwise only the keys already
	// present in out are looked up. ErrKeyNotFound is returned for a
	// missing row.
	Read(table, key string, out Row) error

	// Scan returns up to count rows starting at (and including) startKey in
	// key order.
	Scan(table, startKey string, count int) ([]Row, error)

	// Delete removes a row by primary key.
	Delete(table, key string) error

	// Close releases backend resources. Safe to call once after the last
	// worker has finished.
	Close() error
}

// Common storage errors, shared across backends so CoreWorkload and the
// driver can branch on them without importing backend-specific packages.
var (
	ErrKeyNotFound            = errors.New("benchmark: key not found")
	ErrInvalidOperation       = errors.New("benchmark: invalid operation")
	ErrBackendNotFound        = errors.New("benchmark: storage backend not found")
	ErrDataIntegrityViolation = errors.New("benchmark: data integrity violation")
)

// StorageType names a pluggable backend, selected by --database.
type StorageType string

const (
	StorageTypeSQLite StorageType = "sqlite"
	StorageTypePebble StorageType = "pebble"
	StorageTypeRedis  StorageType = "redis"
)

// StorageConfig holds the union of every backend's configuration, filled in
// from CLI flags by cmd/root.go.
type StorageConfig struct {
	Type StorageType

	// SQLite
	SQLitePath string

	// Pebble
	PebblePath     string
	BlockCacheSize int64 // bytes; negative disables the block cache

	// Redis
	RedisAddr string
	RedisDB   int

	// Cache wraps the selected backend in a ristretto read-through cache
	// when enabled.
	CacheEnabled  bool
	CacheMaxCost  int64
}

// NewStorage constructs the configured backend, optionally wrapped in a
// read-through cache.
func NewStorage(cfg StorageConfig) (Storage, error) {
	var (
		backend Storage
		err     error
	)

	switch cfg.Type {
	case StorageTypeSQLite, "":
		backend, err = newSQLiteStorage(cfg)
	case StorageTypePebble:
		backend, err = newPebbleStorage(cfg)
	case StorageTypeRedis:
		backend, err = newRedisStorage(cfg)
	default:
		return nil, ErrBackendNotFound
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		return newCachedStorage(backend, cfg.CacheMaxCost)
	}
	return backend, nil
}

// IsKeyNotFound abstracts away backend-specific not-found errors.
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}
