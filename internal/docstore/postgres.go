package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);
`

// Postgres keeps every document as a JSONB row keyed by (collection, id).
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres creates the documents table if needed and returns the store.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, docPath string) (Document, error) {
	collection, id, err := Split(docPath)
	if err != nil {
		return Document{}, err
	}

	const q = `SELECT data FROM documents WHERE collection = $1 AND id = $2;`
	var raw []byte
	err = p.pool.QueryRow(ctx, q, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("postgres get %s: %w", docPath, err)
	}

	data, err := decode(raw)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Data: data}, nil
}

func (p *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	const q = `SELECT id, data FROM documents WHERE collection = $1 ORDER BY id;`
	rows, err := p.pool.Query(ctx, q, collection)
	if err != nil {
		return nil, fmt.Errorf("postgres list %s: %w", collection, err)
	}
	defer rows.Close()

	out := make([]Document, 0, 16)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("postgres list %s: %w", collection, err)
		}
		data, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list %s: %w", collection, err)
	}
	return out, nil
}

func (p *Postgres) Create(ctx context.Context, docPath string, data map[string]any) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}
	body, err := encode(data)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO documents (collection, id, data)
VALUES ($1, $2, $3::jsonb)
ON CONFLICT (collection, id) DO NOTHING;
`
	tag, err := p.pool.Exec(ctx, q, collection, id, string(body))
	if err != nil {
		return fmt.Errorf("postgres create %s: %w", docPath, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (p *Postgres) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id := NewID()
	if err := p.Create(ctx, collection+"/"+id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) Set(ctx context.Context, docPath string, data map[string]any) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}
	body, err := encode(data)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO documents (collection, id, data)
VALUES ($1, $2, $3::jsonb)
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now();
`
	if _, err := p.pool.Exec(ctx, q, collection, id, string(body)); err != nil {
		return fmt.Errorf("postgres set %s: %w", docPath, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, docPath string) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}

	const q = `DELETE FROM documents WHERE collection = $1 AND id = $2;`
	tag, err := p.pool.Exec(ctx, q, collection, id)
	if err != nil {
		return fmt.Errorf("postgres delete %s: %w", docPath, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
