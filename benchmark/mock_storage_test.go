package benchmark

import (
	"sort"
	"sync"
	"sync/atomic"
)

// mockStorage is an in-memory Storage used only by tests: a real backend's
// concurrency contract (safe for simultaneous use by many workers) without
// any of sqlite/pebble/redis's setup cost.
type mockStorage struct {
	mu   sync.Mutex
	rows map[string]map[string]Row

	insertCount atomic.Int64
	readCount   atomic.Int64
	deleteCount atomic.Int64

	readKeysMu sync.Mutex
	readKeys   []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{rows: make(map[string]map[string]Row)}
}

func (m *mockStorage) Init() error { return nil }

func (m *mockStorage) Insert(table, key string, fields Row) error {
	m.insertCount.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl, ok := m.rows[table]
	if !ok {
		tbl = make(map[string]Row)
		m.rows[table] = tbl
	}
	row, ok := tbl[key]
	if !ok {
		row = Row{}
		tbl[key] = row
	}
	for k, v := range fields {
		row[k] = v
	}
	return nil
}

func (m *mockStorage) Read(table, key string, out Row) error {
	m.readCount.Add(1)
	m.readKeysMu.Lock()
	m.readKeys = append(m.readKeys, key)
	m.readKeysMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	tbl, ok := m.rows[table]
	if !ok {
		return ErrKeyNotFound
	}
	row, ok := tbl[key]
	if !ok {
		return ErrKeyNotFound
	}
	if len(out) == 0 {
		for k, v := range row {
			out[k] = v
		}
		return nil
	}
	for k := range out {
		out[k] = row[k]
	}
	return nil
}

func (m *mockStorage) Scan(table, startKey string, count int) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.rows[table]
	keys := make([]string, 0, len(tbl))
	for k := range tbl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result []Row
	for _, k := range keys {
		if k < startKey {
			continue
		}
		result = append(result, tbl[k])
		if len(result) >= count {
			break
		}
	}
	return result, nil
}

func (m *mockStorage) Delete(table, key string) error {
	m.deleteCount.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows[table], key)
	return nil
}

func (m *mockStorage) Close() error { return nil }

func (m *mockStorage) rowCount(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[table])
}
