package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mattjoyce/dmhook/internal/config"
	"github.com/mattjoyce/dmhook/internal/dm"
)

// PostgresStore writes DMs straight to PostgreSQL (including a Supabase
// database reached over its connection string).
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// OpenPostgres connects a pool and, when cfg.AutoMigrate is set, creates the
// DM table.
func OpenPostgres(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if cfg.AutoMigrate {
		for _, stmt := range postgresSchema(cfg.Table) {
			if _, err := pool.Exec(pctx, stmt); err != nil {
				pool.Close()
				return nil, fmt.Errorf("bootstrap postgres: %w", err)
			}
		}
	}

	return &PostgresStore{pool: pool, table: cfg.Table}, nil
}

// InsertDM writes rec and returns the stored row.
func (s *PostgresStore) InsertDM(ctx context.Context, rec dm.Record) (*dm.Row, error) {
	ts, err := time.Parse(dm.CanonicalLayout, rec.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert dm: timestamp %q not canonical: %w", rec.Timestamp, err)
	}

	query := fmt.Sprintf(`
INSERT INTO %s(%s)
VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
RETURNING id::text, user_id::text, platform, sender_username, sender_name, message_text,
          message_id, conversation_id, "timestamp", status, created_at
`, s.table, dmColumns)

	var (
		row       dm.Row
		rowID     string
		stored    time.Time
		createdAt time.Time
	)
	err = s.pool.QueryRow(ctx, query,
		uuid.New(), rec.UserID, rec.Platform, rec.SenderUsername, rec.SenderName, rec.MessageText,
		rec.MessageID, rec.ConversationID, ts, rec.Status,
	).Scan(
		&rowID, &row.UserID, &row.Platform, &row.SenderUsername, &row.SenderName, &row.MessageText,
		&row.MessageID, &row.ConversationID, &stored, &row.Status, &createdAt,
	)
	if err != nil {
		return nil, postgresError("insert dm", err)
	}

	row.ID = dm.RowID(rowID)
	row.Timestamp = stored.UTC().Format(dm.CanonicalLayout)
	row.CreatedAt = createdAt.UTC().Format(dm.CanonicalLayout)
	return &row, nil
}

// Ping checks a pooled connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func postgresError(op string, err error) *Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{Op: op, Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	return &Error{Op: op, Message: err.Error(), Err: err}
}
