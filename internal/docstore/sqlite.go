package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
	PRIMARY KEY (collection, id)
);
`

// SQLite is the embedded backend used for local runs and tests.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at path; ":memory:" gives a private
// in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: an in-memory database is per-connection, and a single
	// writer avoids SQLITE_BUSY on files
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, docPath string) (Document, error) {
	collection, id, err := Split(docPath)
	if err != nil {
		return Document{}, err
	}

	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("sqlite get %s: %w", docPath, err)
	}

	data, err := decode([]byte(raw))
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Data: data}, nil
}

func (s *SQLite) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("sqlite list %s: %w", collection, err)
	}
	defer rows.Close()

	out := make([]Document, 0, 16)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("sqlite list %s: %w", collection, err)
		}
		data, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite list %s: %w", collection, err)
	}
	return out, nil
}

func (s *SQLite) Create(ctx context.Context, docPath string, data map[string]any) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}
	body, err := encode(data)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, string(body))
	if err != nil {
		return fmt.Errorf("sqlite create %s: %w", docPath, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite create %s: %w", docPath, err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *SQLite) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id := NewID()
	if err := s.Create(ctx, collection+"/"+id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLite) Set(ctx context.Context, docPath string, data map[string]any) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}
	body, err := encode(data)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
ON CONFLICT (collection, id) DO UPDATE SET
	data = excluded.data,
	updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		collection, id, string(body))
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", docPath, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, docPath string) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("sqlite delete %s: %w", docPath, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite delete %s: %w", docPath, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
