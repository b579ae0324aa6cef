package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/infomonitor/internal/metrics"
	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// Файл unit-тестов для ежедневной рассылки (digest.go):
//  - BuildDigest: приветствие + дайджест, запись в кэш, пустой результат;
//  - Digest: попадание в кэш без загрузки лент, промах -> сборка;
//  - PushDigest: пропуск без новостей, изоляция ошибок доставки;
//  - nextRun: расчёт следующего запуска.

func digestParser() *stubParser {
	return &stubParser{items: map[string][]models.NewsItem{
		"a": {item("a1", at(1))},
		"b": {item("b1", at(2))},
	}}
}

func TestBuildDigest_StoresInCache(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dc := mocks.NewMockDigestCache(ctrl)

	var stored string
	dc.EXPECT().
		Set(gomock.Any(), gomock.Any(), time.Hour).
		DoAndReturn(func(_ context.Context, text string, _ time.Duration) error {
			stored = text
			return nil
		})

	svc := New(testConfig(), Deps{Parser: digestParser(), Cache: dc})

	text, ok, err := svc.BuildDigest(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stored, text)
	require.True(t, strings.HasPrefix(text, digestGreeting+digestHeader+"*1. b1*"))
	require.True(t, strings.HasSuffix(text, "📊 Показано новостей: 2"))
}

func TestBuildDigest_NoNews(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dc := mocks.NewMockDigestCache(ctrl) // Set не ожидается.

	svc := New(testConfig(), Deps{Parser: &stubParser{}, Cache: dc})

	text, ok, err := svc.BuildDigest(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, text)
}

// TestDigest_CacheHit — при попадании в кэш ленты не загружаются.
func TestDigest_CacheHit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dc := mocks.NewMockDigestCache(ctrl)
	dc.EXPECT().Get(gomock.Any()).Return("cached", true, nil)

	p := &stubParser{}
	svc := New(testConfig(), Deps{Parser: p, Cache: dc})

	text, err := svc.Digest(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cached", text)
	require.Empty(t, p.fetched())
}

// TestDigest_CacheErrorFallsBack — ошибка кэша не ломает запрос.
func TestDigest_CacheErrorFallsBack(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dc := mocks.NewMockDigestCache(ctrl)
	dc.EXPECT().Get(gomock.Any()).Return("", false, errors.New("redis down"))
	dc.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := New(testConfig(), Deps{Parser: digestParser(), Cache: dc})

	text, err := svc.Digest(context.Background())
	require.NoError(t, err)
	require.Contains(t, text, "b1")
}

func TestDigest_NoNews(t *testing.T) {
	t.Parallel()

	svc := New(testConfig(), Deps{Parser: &stubParser{}})

	text, err := svc.Digest(context.Background())
	require.NoError(t, err)
	require.Equal(t, NoNewsText, text)
}

// TestPushDigest_IsolatesFailures — ошибка одного получателя не прерывает рассылку.
func TestPushDigest_IsolatesFailures(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mocks.NewMockSubscriberStorage(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	list := []models.Subscriber{{UserID: 1}, {UserID: 2}, {UserID: 3}}
	subs.EXPECT().ListSubscribers(gomock.Any()).Return(list, nil)

	gomock.InOrder(
		notifier.EXPECT().Notify(gomock.Any(), list[0], gomock.Any()).Return(nil),
		notifier.EXPECT().Notify(gomock.Any(), list[1], gomock.Any()).Return(errors.New("blocked by user")),
		notifier.EXPECT().Notify(gomock.Any(), list[2], gomock.Any()).
			DoAndReturn(func(_ context.Context, _ models.Subscriber, text string) error {
				require.True(t, strings.HasPrefix(text, digestGreeting))
				return nil
			}),
	)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := New(testConfig(), Deps{
		Parser:      digestParser(),
		Subscribers: subs,
		Notifier:    notifier,
		Metrics:     m,
	})

	report, err := svc.PushDigest(context.Background())
	require.NoError(t, err)
	require.Equal(t, PushReport{Recipients: 3, Delivered: 2, Failed: 1}, report)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP infomonitor_digest_deliveries_total Daily digest deliveries by result.
# TYPE infomonitor_digest_deliveries_total counter
infomonitor_digest_deliveries_total{result="delivered"} 2
infomonitor_digest_deliveries_total{result="failed"} 1
`), "infomonitor_digest_deliveries_total"))
}

// TestPushDigest_SkipsWithoutNews — без новостей подписчики не запрашиваются.
func TestPushDigest_SkipsWithoutNews(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := New(testConfig(), Deps{
		Parser:      &stubParser{},
		Subscribers: mocks.NewMockSubscriberStorage(ctrl),
		Notifier:    mocks.NewMockNotifier(ctrl),
	})

	report, err := svc.PushDigest(context.Background())
	require.NoError(t, err)
	require.True(t, report.Skipped)
}

func TestPushDigest_ListError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := mocks.NewMockSubscriberStorage(ctrl)
	subs.EXPECT().ListSubscribers(gomock.Any()).Return(nil, errors.New("db down"))

	svc := New(testConfig(), Deps{
		Parser:      digestParser(),
		Subscribers: subs,
		Notifier:    mocks.NewMockNotifier(ctrl),
	})

	_, err := svc.PushDigest(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "list_subscribers")
}

func TestPushDigest_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := New(testConfig(), Deps{Parser: digestParser()}).PushDigest(context.Background())
	require.Error(t, err)
}

func TestNextRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 3, 10, 5, 59, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly now moves to tomorrow",
			now:  time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC),
		},
		{
			name: "month rollover",
			now:  time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC),
			want: time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC),
		},
		{
			name: "non-utc input",
			now:  time.Date(2025, 3, 10, 8, 30, 0, 0, time.FixedZone("MSK", 3*3600)),
			want: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.True(t, tt.want.Equal(nextRun(tt.now, 6, 0)), "got %s", nextRun(tt.now, 6, 0))
		})
	}
}

// TestStartDailyDigest_StopsOnCancel — цикл завершается по отмене контекста.
func TestStartDailyDigest_StopsOnCancel(t *testing.T) {
	t.Parallel()

	svc := New(testConfig(), Deps{Parser: &stubParser{}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.StartDailyDigest(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("StartDailyDigest did not stop")
	}
}
