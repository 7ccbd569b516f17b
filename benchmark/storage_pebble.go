package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"
)

// pebbleStorage implements Storage for an embedded Pebble LSM tree.
// Adapted from the teacher's benchmark/pebble_database.go: a row is
// serialized as one Pebble value keyed by "table/key" instead of the
// Database{Set,Get} byte-slice interface pebble-bench exposed, so that
// Insert/Read can satisfy CoreWorkload's field-level contract.
type pebbleStorage struct {
	db    *pebble.DB
	cache *pebble.Cache
}

func newPebbleStorage(cfg StorageConfig) (*pebbleStorage, error) {
	path := cfg.PebblePath
	if path == "" {
		path = "dbs/pebble/ycsb-bench"
	}

	opts := &pebble.Options{}
	var cache *pebble.Cache
	if cfg.BlockCacheSize >= 0 {
		cache = pebble.NewCache(cfg.BlockCacheSize)
		opts.Cache = cache
		log.Info().Int64("block_cache_size", cfg.BlockCacheSize).Msg("opening pebble with block cache")
	} else {
		log.Info().Msg("opening pebble with block cache disabled")
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		if cache != nil {
			cache.Unref()
		}
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	return &pebbleStorage{db: db, cache: cache}, nil
}

func pebbleRowKey(table, key string) []byte {
	return []byte(table + "/" + key)
}

func (p *pebbleStorage) Init() error {
	return nil
}

func (p *pebbleStorage) Insert(table, key string, fields Row) error {
	rowKey := pebbleRowKey(table, key)

	existing := Row{}
	if v, closer, err := p.db.Get(rowKey); err == nil {
		if jerr := json.Unmarshal(v, &existing); jerr != nil {
			closer.Close()
			return jerr
		}
		closer.Close()
	} else if !errors.Is(err, pebble.ErrNotFound) {
		return err
	}

	for k, v := range fields {
		existing[k] = v
	}

	blob, err := json.Marshal(existing)
	if err != nil {
		return err
	}
	return p.db.Set(rowKey, blob, pebble.NoSync)
}

func (p *pebbleStorage) Read(table, key string, out Row) error {
	rowKey := pebbleRowKey(table, key)
	v, closer, err := p.db.Get(rowKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrKeyNotFound
		}
		return err
	}
	defer closer.Close()

	var stored Row
	if err := json.Unmarshal(v, &stored); err != nil {
		return err
	}

	if len(out) == 0 {
		for k, val := range stored {
			out[k] = val
		}
		return nil
	}
	for k := range out {
		out[k] = stored[k]
	}
	return nil
}

func (p *pebbleStorage) Scan(table, startKey string, count int) ([]Row, error) {
	lower := pebbleRowKey(table, startKey)
	upper := append([]byte(table+"/"), 0xff)

	iter, err := p.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	// Pebble's iterator already yields keys in sorted order within
	// [lower, upper), so no separate sort is needed here.
	var values [][]byte
	for iter.First(); iter.Valid() && len(values) < count; iter.Next() {
		values = append(values, append([]byte(nil), iter.Value()...))
	}

	rows := make([]Row, 0, len(values))
	for _, v := range values {
		var row Row
		if err := json.Unmarshal(v, &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p *pebbleStorage) Delete(table, key string) error {
	return p.db.Delete(pebbleRowKey(table, key), pebble.NoSync)
}

func (p *pebbleStorage) Close() error {
	err := p.db.Close()
	if p.cache != nil {
		p.cache.Unref()
	}
	return err
}
