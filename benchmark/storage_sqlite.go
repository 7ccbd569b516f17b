package benchmark

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// sqliteStorage implements Storage over a single SQLite file, matching
// spec.md §4.5/§6 literally: primary key column y_id, default table
// usertable, text columns. Grounded in original_source/src/sqlite.rs for
// the insert/read shape (dynamic column list, upsert-by-primary-key), built
// here on database/sql + modernc.org/sqlite (pure Go, no cgo) the way
// other_examples' workload_generator.go and joeycumines-go-utilpkg's
// sql/export package drive database/sql generically.
type sqliteStorage struct {
	db *sql.DB
	// mu serializes schema creation for tables seen for the first time;
	// ordinary reads/writes rely on database/sql's own connection pooling.
	mu     sync.Mutex
	tables map[string]bool
}

func newSQLiteStorage(cfg StorageConfig) (*sqliteStorage, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = "ycsb-bench.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &sqliteStorage{db: db, tables: make(map[string]bool)}, nil
}

func (s *sqliteStorage) Init() error {
	return s.ensureTable(DefaultTable)
}

func (s *sqliteStorage) ensureTable(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[table] {
		return nil
	}

	cols := make([]string, 0, 11)
	cols = append(cols, PrimaryKeyColumn+" TEXT PRIMARY KEY")
	for _, f := range FieldNames {
		cols = append(cols, f+" TEXT")
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(cols, ", "))
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	s.tables[table] = true
	return nil
}

func (s *sqliteStorage) Insert(table, key string, fields Row) error {
	if err := s.ensureTable(table); err != nil {
		return err
	}

	cols := make([]string, 0, len(fields)+1)
	placeholders := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	updates := make([]string, 0, len(fields))

	cols = append(cols, PrimaryKeyColumn)
	placeholders = append(placeholders, "?")
	args = append(args, key)

	for name, value := range fields {
		cols = append(cols, name)
		placeholders = append(placeholders, "?")
		args = append(args, value)
		updates = append(updates, fmt.Sprintf("%s=excluded.%s", name, name))
	}

	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		PrimaryKeyColumn, strings.Join(updates, ", "),
	)
	if len(updates) == 0 {
		stmt = fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO NOTHING",
			table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), PrimaryKeyColumn,
		)
	}

	_, err := s.db.Exec(stmt, args...)
	return err
}

func (s *sqliteStorage) Read(table, key string, out Row) error {
	fields := FieldNames
	if len(out) > 0 {
		fields = make([]string, 0, len(out))
		for f := range out {
			fields = append(fields, f)
		}
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", strings.Join(fields, ", "), table, PrimaryKeyColumn)
	row := s.db.QueryRow(query, key)

	dest := make([]interface{}, len(fields))
	vals := make([]sql.NullString, len(fields))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return ErrKeyNotFound
		}
		return err
	}
	for i, f := range fields {
		out[f] = vals[i].String
	}
	return nil
}

func (s *sqliteStorage) Scan(table, startKey string, count int) ([]Row, error) {
	cols := append([]string{PrimaryKeyColumn}, FieldNames...)
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s >= ? ORDER BY %s LIMIT ?",
		strings.Join(cols, ", "), table, PrimaryKeyColumn, PrimaryKeyColumn,
	)
	rows, err := s.db.Query(query, startKey, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(Row, len(FieldNames))
		for i, c := range cols {
			if c == PrimaryKeyColumn {
				continue
			}
			row[c] = vals[i].String
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *sqliteStorage) Delete(table, key string) error {
	_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, PrimaryKeyColumn), key)
	return err
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
