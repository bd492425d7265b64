package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suspectuso/airdrop-bot/internal/notifier"
)

type fixedStats notifier.Stats

func (f fixedStats) Stats() notifier.Stats { return notifier.Stats(f) }

func newTestServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(fixedStats{Cycles: 3, Announced: 2, Interval: "30s"}, log)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got notifier.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(3), got.Cycles)
	assert.Equal(t, int64(2), got.Announced)
	assert.Equal(t, "30s", got.Interval)
}

func TestStatusRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
