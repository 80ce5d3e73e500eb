package webhook

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mattjoyce/dmhook/internal/storage"
)

// sqliteFixture wires a server to a real SQLite store and exposes a second
// handle on the same file for assertions.
type sqliteFixture struct {
	handler http.Handler
	db      *sql.DB
	table   string
}

func newSQLiteFixture(t *testing.T) *sqliteFixture {
	t.Helper()

	cfg := testConfig("s3cret")
	cfg.Store.Path = filepath.Join(t.TempDir(), "dmhook.db")

	st, err := storage.Open(context.Background(), cfg.Store)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	db, err := sql.Open("sqlite", cfg.Store.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &sqliteFixture{
		handler: New(cfg, st, testLogger()).Handler(),
		db:      db,
		table:   cfg.Store.Table,
	}
}

func (f *sqliteFixture) count(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM "+f.table).Scan(&n))
	return n
}

func (f *sqliteFixture) post(body string) (int, map[string]any) {
	rec := doRequest(f.handler, http.MethodPost, "/", body, map[string]string{HeaderWebhookSecret: "s3cret"})
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func TestSQLiteStoresNormalizedRow(t *testing.T) {
	f := newSQLiteFixture(t)

	code, resp := f.post(validPayload)
	require.Equal(t, http.StatusOK, code, resp)

	var status, ts string
	var senderName sql.NullString
	err := f.db.QueryRow(`SELECT status, "timestamp", sender_name FROM `+f.table).Scan(&status, &ts, &senderName)
	require.NoError(t, err)
	assert.Equal(t, "new", status)
	assert.Equal(t, "2024-01-01T10:00:00.000Z", ts)
	assert.Equal(t, "Alice", senderName.String)

	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "2024-01-01T10:00:00.000Z", data["timestamp"])
}

func TestSQLiteIdenticalPayloadsProduceTwoRows(t *testing.T) {
	f := newSQLiteFixture(t)

	code, _ := f.post(validPayload)
	require.Equal(t, http.StatusOK, code)
	code, _ = f.post(validPayload)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, 2, f.count(t))
}

func TestSQLiteStoreFailureLeavesNoRow(t *testing.T) {
	f := newSQLiteFixture(t)
	_, err := f.db.Exec(`CREATE TRIGGER reject_dm BEFORE INSERT ON ` + f.table + `
BEGIN SELECT RAISE(ABORT, 'insert rejected'); END;`)
	require.NoError(t, err)

	code, resp := f.post(validPayload)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to save DM", resp["error"])
	assert.Contains(t, resp["details"], "insert rejected")
	assert.Equal(t, 0, f.count(t))
}

func TestSQLiteRejectedCallsWriteNothing(t *testing.T) {
	f := newSQLiteFixture(t)

	rec := doRequest(f.handler, http.MethodPost, "/", validPayload, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	code, _ := f.post(`{"platform":"instagram"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, 0, f.count(t))
}

func TestSQLiteOutOfRangeTimestampWritesNothing(t *testing.T) {
	for _, ts := range []string{`1e300`, `1e17`, `-1e17`, `8640000000000001`, `"   "`} {
		t.Run(ts, func(t *testing.T) {
			f := newSQLiteFixture(t)
			payload := strings.Replace(validPayload, `"2024-01-01 10:00:00"`, ts, 1)

			code, resp := f.post(payload)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "Invalid timestamp", resp["error"])
			assert.Equal(t, 0, f.count(t))
		})
	}
}

func TestSQLiteNumericUserID(t *testing.T) {
	f := newSQLiteFixture(t)
	payload := strings.Replace(validPayload, `"3f1c2b6e-0000-4000-8000-000000000001"`, `17841400000000001`, 1)

	code, resp := f.post(payload)
	require.Equal(t, http.StatusOK, code, resp)

	var userID string
	require.NoError(t, f.db.QueryRow(`SELECT user_id FROM `+f.table).Scan(&userID))
	assert.Equal(t, "17841400000000001", userID)
}
