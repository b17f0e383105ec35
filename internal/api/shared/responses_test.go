package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, r, http.StatusCreated, map[string]string{"id": "app-1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"app-1"}`, w.Body.String())
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	log, buf := logger.NewTestLogger(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(logger.WithLogger(r.Context(), log))
	w := httptest.NewRecorder()

	RespondWithJSON(w, r, http.StatusOK, map[string]any{"c": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	logger.AssertLogContains(t, buf, "failed to encode JSON response")
}

func TestRespondNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	RespondNoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		elevate   bool
		wantLevel string
	}{
		{"server error", http.StatusInternalServerError, false, "ERROR"},
		{"client error", http.StatusNotFound, false, "DEBUG"},
		{"elevated client error", http.StatusUnauthorized, true, "WARN"},
		{"rate limited", http.StatusTooManyRequests, false, "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := logger.NewTestLogger(t)
			ctx := context.WithValue(context.Background(), TraceIDKey, "trace-123")
			ctx = logger.WithLogger(ctx, log)
			r := httptest.NewRequest(http.MethodGet, "/api/applications", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tt.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, r, tt.status, "Something failed",
				errors.New("lookup of jdoe@example.com failed"), opts...)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Something failed", body.Message)
			assert.Equal(t, tt.status, body.HTTPStatus)
			assert.Equal(t, "trace-123", body.TraceID)

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
			assert.Equal(t, "trace-123", entries[0]["trace_id"])
			assert.Equal(t, "lookup of [REDACTED_EMAIL] failed", entries[0]["error"])
			assert.NotContains(t, w.Body.String(), "jdoe@example.com")
		})
	}
}
