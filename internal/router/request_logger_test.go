package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func loggedRequest(t *testing.T, status int, target string) observer.LoggedEntry {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/status-check", func(c *gin.Context) {
		c.Status(status)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	return entries[0]
}

func TestRequestLoggerLevels(t *testing.T) {
	cases := []struct {
		status    int
		wantLevel zapcore.Level
		wantMsg   string
	}{
		{http.StatusOK, zapcore.DebugLevel, "Request processed"},
		{http.StatusBadRequest, zapcore.WarnLevel, "Client error"},
		{http.StatusTooManyRequests, zapcore.WarnLevel, "Rate limited"},
		{http.StatusInternalServerError, zapcore.ErrorLevel, "Server error"},
	}

	for _, tc := range cases {
		entry := loggedRequest(t, tc.status, "/status-check")
		if entry.Level != tc.wantLevel || entry.Message != tc.wantMsg {
			t.Errorf("status %d logged as %s %q, want %s %q",
				tc.status, entry.Level, entry.Message, tc.wantLevel, tc.wantMsg)
		}
	}
}

func TestRequestLoggerIncludesQuery(t *testing.T) {
	entry := loggedRequest(t, http.StatusOK, "/status-check?limit=5")

	fields := entry.ContextMap()
	if got := fields["path"]; got != "/status-check?limit=5" {
		t.Errorf("path field = %v, want /status-check?limit=5", got)
	}
	if got := fields["status"]; got != int64(http.StatusOK) {
		t.Errorf("status field = %v, want 200", got)
	}
}
