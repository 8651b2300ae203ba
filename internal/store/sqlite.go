package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore implements RecordStore over a single-file embedded database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens the database file at path. The file is created on first
// write; Ping is the cheap existence/readability probe.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A second writer on the same file gets SQLITE_BUSY instead of failing
	// immediately.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	// Opening a sqlite handle is lazy; force a trivial read so missing or
	// unreadable files surface here, not on first use.
	var n int
	return s.db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n)
}

func (s *SQLiteStore) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, queryListTables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) CreateCollection(ctx context.Context, name string) error {
	ddl, ok := tableDDL[name]
	if !ok {
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (id INTEGER PRIMARY KEY AUTOINCREMENT)`, name)
	}
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *SQLiteStore) ReadAll(ctx context.Context, collection string) ([]Record, error) {
	query, args, err := sq.Select("*").From(quoteIdent(collection)).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			rec[col] = normalizeValue(values[i])
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) InsertMany(ctx context.Context, collection string, records []Record) (int, error) {
	inserted := 0
	for _, rec := range records {
		builder := sq.Insert(quoteIdent(collection)).SetMap(rec)
		query, args, err := builder.ToSql()
		if err != nil {
			return inserted, err
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			// Unordered semantics: a rejected row (typically a UNIQUE
			// violation) does not block the rest of the batch.
			zap.S().Named("sqlite_store").Debugw("row rejected",
				"table", collection, "error", err)
			continue
		}
		inserted++
	}
	return inserted, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", quoteIdent(collection)))
	return err
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *SQLiteStore) Path() string { return s.path }

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// normalizeValue maps driver scan results to values that survive a JSON or
// BSON round-trip. sqlite hands TEXT columns back as []byte.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
