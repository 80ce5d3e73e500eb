package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/dmhook/internal/config"
)

func newTestSupabase(t *testing.T, handler http.HandlerFunc) *SupabaseStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Defaults().Store
	cfg.URL = srv.URL + "/"
	cfg.ServiceKey = "service-role-key"
	cfg.Timeout = 2 * time.Second

	s, err := NewSupabaseStore(cfg)
	require.NoError(t, err)
	return s
}

func TestSupabaseInsertDMRequestShape(t *testing.T) {
	t.Parallel()

	var (
		gotPath    string
		gotHeaders http.Header
		gotBody    map[string]any
	)
	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/vnd.pgrst.object+json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "8f0e3f4a-0a5b-4b59-9d55-0c1c2f1e3a77",
			"user_id": "user-1",
			"platform": "instagram",
			"sender_username": "@alice",
			"sender_name": "Alice",
			"message_text": "hello",
			"message_id": null,
			"conversation_id": null,
			"timestamp": "2024-01-01T10:00:00+00:00",
			"status": "new",
			"created_at": "2024-01-01T10:00:01.5+00:00"
		}`))
	})

	row, err := s.InsertDM(context.Background(), sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/automated_dms", gotPath)
	assert.Equal(t, "service-role-key", gotHeaders.Get("apikey"))
	assert.Equal(t, "Bearer service-role-key", gotHeaders.Get("Authorization"))
	assert.Equal(t, "return=representation", gotHeaders.Get("Prefer"))
	assert.Equal(t, pgrstObjectMediaType, gotHeaders.Get("Accept"))

	assert.Equal(t, "new", gotBody["status"])
	assert.Equal(t, "2024-01-01T10:00:00.000Z", gotBody["timestamp"])
	assert.Equal(t, "Alice", gotBody["sender_name"])
	_, hasMessageID := gotBody["message_id"]
	assert.False(t, hasMessageID, "absent optional fields should be omitted")

	assert.Equal(t, "8f0e3f4a-0a5b-4b59-9d55-0c1c2f1e3a77", string(row.ID))
	assert.Equal(t, "new", row.Status)
	assert.Nil(t, row.MessageID)
}

func TestSupabaseInsertDMPostgrestError(t *testing.T) {
	t.Parallel()

	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"23502","details":null,"hint":null,"message":"null value in column \"user_id\" violates not-null constraint"}`))
	})

	_, err := s.InsertDM(context.Background(), sampleRecord())
	require.Error(t, err)

	var storeErr *Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "23502", storeErr.Code)
	assert.Equal(t, `null value in column "user_id" violates not-null constraint`, storeErr.Message)
}

func TestSupabaseInsertDMNonJSONError(t *testing.T) {
	t.Parallel()

	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := s.InsertDM(context.Background(), sampleRecord())
	var storeErr *Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "upstream unavailable", storeErr.Message)
}

func TestSupabasePing(t *testing.T) {
	t.Parallel()

	var status atomic.Int32
	status.Store(http.StatusOK)
	s := newTestSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.WriteHeader(int(status.Load()))
	})

	assert.NoError(t, s.Ping(context.Background()))

	status.Store(http.StatusUnauthorized)
	assert.Error(t, s.Ping(context.Background()))
}

func TestNewSupabaseStoreRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewSupabaseStore(config.Defaults().Store)
	assert.Error(t, err)
}
