package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattjoyce/dmhook/internal/dm"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps DMs in a local SQLite file. Intended for development,
// single-node deployments, and tests.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens (and creates if needed) the SQLite database at path and
// ensures the DM table exists.
func OpenSQLite(ctx context.Context, path, table string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := checkLocalFilesystem(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal_mode: %w", err)
	}
	if err := bootstrap(ctx, db, sqliteSchema(table)); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, table: table}, nil
}

func bootstrap(ctx context.Context, db *sql.DB, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap sqlite: %w", err)
		}
	}
	return nil
}

// InsertDM writes rec with a fresh UUID and returns the stored row.
func (s *SQLiteStore) InsertDM(ctx context.Context, rec dm.Record) (*dm.Row, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(dm.CanonicalLayout)

	query := fmt.Sprintf(`
INSERT INTO %s(%s)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING %s;
`, s.table, dmColumns, dmColumns)

	var (
		row                                   dm.Row
		rowID                                 string
		senderName, messageID, conversationID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query,
		id, rec.UserID, rec.Platform, rec.SenderUsername, rec.SenderName, rec.MessageText,
		rec.MessageID, rec.ConversationID, rec.Timestamp, rec.Status, now,
	).Scan(
		&rowID, &row.UserID, &row.Platform, &row.SenderUsername, &senderName, &row.MessageText,
		&messageID, &conversationID, &row.Timestamp, &row.Status, &row.CreatedAt,
	)
	if err != nil {
		return nil, &Error{Op: "insert dm", Message: err.Error(), Err: err}
	}

	row.ID = dm.RowID(rowID)
	row.SenderName = nullableString(senderName)
	row.MessageID = nullableString(messageID)
	row.ConversationID = nullableString(conversationID)
	return &row, nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
