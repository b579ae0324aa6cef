package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pribylovaa/infomonitor/internal/bot"
	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/internal/session"
	"github.com/pribylovaa/infomonitor/internal/transport/http/apierrors"
	"github.com/pribylovaa/infomonitor/internal/transport/http/handlers"
	"github.com/pribylovaa/infomonitor/internal/transport/http/middleware"
	"github.com/stretchr/testify/require"
)

type fakeNews struct{}

func (fakeNews) FetchLatest(context.Context, int, string) ([]models.NewsItem, error) {
	return []models.NewsItem{{Title: "A", Source: "RIA"}}, nil
}

func (fakeNews) Digest(context.Context) (string, error) { return "digest", nil }

// panicDialog — обработчик чата, падающий с паникой.
type panicDialog struct{}

func (panicDialog) Handle(context.Context, bot.Update) bot.Reply { panic("boom") }

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	h := &handlers.Handlers{
		News: fakeNews{},
		Sessions: session.NewMemoryStore(time.Hour, func(items []models.NewsItem, i, total int) string {
			return items[i].Title
		}),
		Bot:          panicDialog{},
		DefaultLimit: 10,
	}

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	return NewRouter(h, Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout: time.Second,
		Metrics: metrics,
	})
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	r := newRouter(t)

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/v1/news", http.StatusOK},
		{http.MethodGet, "/v1/digest", http.StatusOK},
		{http.MethodPost, "/v1/users/1/session", http.StatusOK},
		{http.MethodGet, "/v1/users/2/session", http.StatusNotFound},
		{http.MethodGet, "/livez", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
		{http.MethodDelete, "/v1/news", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, tt.want, rec.Code, "%s %s", tt.method, tt.target)
	}
}

// TestRouter_RequestIDAndRecover — паника обработчика превращается в 500
// с request_id из входящего заголовка.
func TestRouter_RequestIDAndRecover(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/v1/updates", strings.NewReader(`{"user_id": 1, "text": "hi"}`))
	req.Header.Set(middleware.HeaderRequestID, "rid-1")
	rec := httptest.NewRecorder()

	newRouter(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "rid-1", rec.Header().Get(middleware.HeaderRequestID))

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "rid-1", resp.Error.RequestID)
}
