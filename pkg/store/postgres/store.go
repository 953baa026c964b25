// Package postgres provides a Postgres JSONB document store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"user-registration/pkg/store"
	"user-registration/pkg/store/postgres/migrations"
)

// DBTX is the subset of database/sql used by the store.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db     DBTX
	closer func() error
	now    func() time.Time
}

// New wraps an existing handle. Migrations are not run.
func New(db DBTX) *Store {
	return &Store{db: db, now: time.Now}
}

// Open connects through pgx, pings and migrates.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := store.Migrate(ctx, db, "postgres", migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	s := New(db)
	s.closer = db.Close
	return s, nil
}

func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *Store) CreateDocument(ctx context.Context, collection string, doc store.Document) (string, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return "", err
	}
	body, err := store.Encode(doc, s.now())
	if err != nil {
		return "", err
	}

	query :=
		`INSERT INTO documents (collection, id, body)
		 VALUES ($1, $2, $3::jsonb)
		 RETURNING id
		 `

	var id string
	err = s.db.QueryRowContext(ctx, query, collection, uuid.NewString(), string(body)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (store.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}

	query :=
		`SELECT body FROM documents
		 WHERE collection = $1 AND id = $2
		 `

	var body []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return store.Decode(body)
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, fields store.Document) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	patch, err := store.Encode(fields, s.now())
	if err != nil {
		return err
	}

	query :=
		`UPDATE documents SET body = body || $1::jsonb, updated_at = now()
		 WHERE collection = $2 AND id = $3
		 `

	res, err := s.db.ExecContext(ctx, query, string(patch), collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	return nil
}
