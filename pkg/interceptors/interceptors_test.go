package interceptors

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/infomonitor/pkg/log"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// capHandler запоминает последнюю запись со всеми атрибутами, включая добавленные через With.
type capHandler struct {
	mu    *sync.Mutex
	base  []slog.Attr
	last  *record
	count *int
}

type record struct {
	msg   string
	level slog.Level
	attrs map[string]any
}

func newCapHandler() *capHandler {
	return &capHandler{mu: &sync.Mutex{}, last: &record{}, count: new(int)}
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.base)+r.NumAttrs())
	for _, a := range h.base {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.last = record{msg: r.Message, level: r.Level, attrs: attrs}
	*h.count++
	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.base = append(append([]slog.Attr(nil), h.base...), attrs...)
	return &cp
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func (h *capHandler) snapshot() (record, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return *h.last, *h.count
}

var healthInfo = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

func TestLogging_UsesRequestIDAndPeer(t *testing.T) {
	t.Parallel()

	h := newCapHandler()

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "rid-1"))
	ctx = peer.NewContext(ctx, &peer.Peer{Addr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5000}})

	var inner *slog.Logger
	resp, err := Logging(slog.New(h))(ctx, "req", healthInfo, func(ctx context.Context, _ any) (any, error) {
		inner = log.From(ctx)
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", resp)
	require.NotSame(t, slog.Default(), inner, "handler must see the enriched logger")

	rec, _ := h.snapshot()
	require.Equal(t, "grpc_call", rec.msg)
	require.Equal(t, slog.LevelInfo, rec.level)
	require.Equal(t, "rid-1", rec.attrs["request_id"])
	require.Equal(t, healthInfo.FullMethod, rec.attrs["method"])
	require.Equal(t, "127.0.0.1:5000", rec.attrs["peer"])
	require.Equal(t, "OK", rec.attrs["code"])
}

func TestLogging_GeneratesUUIDAndWarnsOnError(t *testing.T) {
	t.Parallel()

	h := newCapHandler()

	_, err := Logging(slog.New(h))(context.Background(), "req", healthInfo, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	})
	require.Error(t, err)

	rec, _ := h.snapshot()
	require.Equal(t, slog.LevelWarn, rec.level)
	require.Equal(t, "NotFound", rec.attrs["code"])
	require.Equal(t, "-", rec.attrs["peer"])

	_, parseErr := uuid.Parse(rec.attrs["request_id"].(string))
	require.NoError(t, parseErr)
}

func TestRecover_PanicToInternal(t *testing.T) {
	t.Parallel()

	h := newCapHandler()

	resp, err := Recover(slog.New(h))(context.Background(), "req", healthInfo, func(context.Context, any) (any, error) {
		panic("boom")
	})
	require.Nil(t, resp)
	require.Equal(t, codes.Internal, status.Code(err))

	rec, _ := h.snapshot()
	require.Equal(t, "panic_recovered", rec.msg)
	require.Equal(t, slog.LevelError, rec.level)
	require.Equal(t, "boom", rec.attrs["panic"])
	require.NotEmpty(t, rec.attrs["stack"])
}

func TestRecover_NoPanicNoLogs(t *testing.T) {
	t.Parallel()

	h := newCapHandler()

	resp, err := Recover(slog.New(h))(context.Background(), "req", healthInfo, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", resp)

	_, n := h.snapshot()
	require.Zero(t, n)
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets deadline", func(t *testing.T) {
		t.Parallel()

		_, err := WithTimeout(30*time.Millisecond)(context.Background(), "req", healthInfo, func(ctx context.Context, _ any) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("keeps existing deadline", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
		defer cancel()
		want, _ := parent.Deadline()

		_, err := WithTimeout(time.Second)(parent, "req", healthInfo, func(ctx context.Context, _ any) (any, error) {
			got, ok := ctx.Deadline()
			require.True(t, ok)
			require.Equal(t, want, got)
			return nil, nil
		})
		require.NoError(t, err)
	})

	t.Run("zero disables", func(t *testing.T) {
		t.Parallel()

		_, err := WithTimeout(0)(context.Background(), "req", healthInfo, func(ctx context.Context, _ any) (any, error) {
			_, ok := ctx.Deadline()
			require.False(t, ok)
			return nil, nil
		})
		require.NoError(t, err)
	})
}
