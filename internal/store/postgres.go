package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps every document in a single jsonb table with a version
// column. The conditional UPDATE on the version is the compare-and-swap
// that serializes concurrent writers to one document.
type Postgres struct {
	pool *pgxpool.Pool
	bus  *broadcaster
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, bus: newBroadcaster()}
}

func (s *Postgres) Get(ctx context.Context, collection, id string, out any) error {
	var data []byte
	err := s.pool.QueryRow(ctx, `
		SELECT doc FROM documents WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, wrapUnavailable(err))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (s *Postgres) Put(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var version int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO documents (collection, id, doc, version)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (collection, id)
		DO UPDATE SET doc = EXCLUDED.doc, version = documents.version + 1, updated_at = NOW()
		RETURNING version
	`, collection, id, data).Scan(&version)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, wrapUnavailable(err))
	}
	s.bus.publish(Event{Collection: collection, ID: id, Data: data, Version: version})
	return nil
}

func (s *Postgres) Create(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, doc, version)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (collection, id) DO NOTHING
	`, collection, id, data)
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", collection, id, wrapUnavailable(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}
	s.bus.publish(Event{Collection: collection, ID: id, Data: data, Version: 1})
	return nil
}

func (s *Postgres) Update(ctx context.Context, collection, id string, maxRetries int, mutate Mutator) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		var current []byte
		var version int64
		err := s.pool.QueryRow(ctx, `
			SELECT doc, version FROM documents WHERE collection = $1 AND id = $2
		`, collection, id).Scan(&current, &version)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update read %s/%s: %w", collection, id, wrapUnavailable(err))
		}

		next, err := mutate(current)
		if errors.Is(err, ErrUnchanged) {
			return nil
		}
		if err != nil {
			return err
		}

		tag, err := s.pool.Exec(ctx, `
			UPDATE documents SET doc = $3, version = version + 1, updated_at = NOW()
			WHERE collection = $1 AND id = $2 AND version = $4
		`, collection, id, next, version)
		if err != nil {
			return fmt.Errorf("update write %s/%s: %w", collection, id, wrapUnavailable(err))
		}
		if tag.RowsAffected() == 1 {
			s.bus.publish(Event{Collection: collection, ID: id, Data: next, Version: version + 1})
			return nil
		}
		// Lost the race; re-read and try again.
	}
	return ErrContention
}

func (s *Postgres) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, wrapUnavailable(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.bus.publish(Event{Collection: collection, ID: id, Deleted: true})
	return nil
}

func (s *Postgres) List(ctx context.Context, collection string) ([]Doc, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, doc, version FROM documents
		WHERE collection = $1
		ORDER BY updated_at ASC, id ASC
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, wrapUnavailable(err))
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		var d Doc
		if err := rows.Scan(&d.ID, &d.Data, &d.Version); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Postgres) Subscribe(collection, id string, fn func(Event)) func() {
	return s.bus.subscribe(collection, id, fn)
}

func wrapUnavailable(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
