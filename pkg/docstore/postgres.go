package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	apperrors "lab-courier/pkg/errors"
)

const notifyChannel = "docstore_changes"

// PostgresStore keeps every document as a jsonb row in the documents table.
// A trigger (see migrations) notifies the docstore_changes channel with the
// root collection name on every insert/update/delete, which drives
// Subscribe.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, logger: logger}
}

func (s *PostgresStore) Get(ctx context.Context, path string) (map[string]interface{}, error) {
	query, args, err := sq.Select("data").
		From("documents").
		Where(sq.Eq{"path": path}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("docstore get %s: %w", path, err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("docstore decode %s: %w", path, err)
	}
	return data, nil
}

func (s *PostgresStore) List(ctx context.Context, root string) ([]Document, error) {
	query, args, err := sq.Select("path", "data").
		From("documents").
		Where(sq.Like{"path": root + "/%"}).
		OrderBy("path").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("docstore list %s: %w", root, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var path string
		var raw []byte
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, err
		}
		var data map[string]interface{}
		if err := json.Unmarshal(raw, &data); err != nil {
			// One undecodable row must not fail the collection read.
			s.logger.Warn("dropping undecodable document", zap.String("path", path), zap.Error(err))
			continue
		}
		docs = append(docs, Document{Path: path, Data: data})
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Set(ctx context.Context, path string, data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (path, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, path, raw); err != nil {
		return fmt.Errorf("docstore set %s: %w", path, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, path string) error {
	query, args, err := sq.Delete("documents").
		Where(sq.Eq{"path": path}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("docstore delete %s: %w", path, err)
	}
	return nil
}

// Subscribe holds a dedicated connection on LISTEN and forwards
// notifications whose payload matches root.
func (s *PostgresStore) Subscribe(ctx context.Context, root string) (<-chan Event, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("docstore subscribe: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("docstore subscribe: %w", err)
	}

	ch := make(chan Event, 1)
	go func() {
		defer close(ch)
		defer conn.Release()
		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Error("docstore notification wait failed", zap.Error(err))
				}
				return
			}
			if notification.Payload != root {
				continue
			}
			select {
			case ch <- Event{Root: root}:
			default:
				// Subscriber is mid-resnapshot; the pending event covers
				// this change too.
			}
		}
	}()
	return ch, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
