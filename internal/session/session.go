// session хранит per-user сессии пагинации: список новостей последней загрузки
// и курсор. Навигация насыщающая: выход за границы поглощается без ошибки.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pribylovaa/infomonitor/internal/metrics"
	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/pkg/log"
)

const (
	// NoSessionText — ответ на навигацию без активной сессии.
	NoSessionText = "😔 Новости не найдены. Используйте /news для получения новостей."
	// NoMoreNewsText — сессия создана по пустому списку.
	NoMoreNewsText = "😔 Больше новостей нет."
)

// ErrNoSession — у пользователя нет активной сессии (не создана или истекла по TTL).
// Транспорт: codes.NotFound.
var ErrNoSession = errors.New("no active session")

// Formatter отрисовывает items[index] с подвалом «X из total».
type Formatter func(items []models.NewsItem, index, total int) string

// Store — контракт хранилища сессий. Операции над одним пользователем сериализуются,
// операции разных пользователей независимы.
type Store interface {
	// Start создаёт или заменяет сессию пользователя, курсор = 0.
	Start(ctx context.Context, userID int64, items []models.NewsItem)
	// Advance сдвигает курсор вперёд с насыщением на последнем элементе.
	Advance(ctx context.Context, userID int64) (models.View, error)
	// Retreat сдвигает курсор назад с насыщением на первом элементе.
	Retreat(ctx context.Context, userID int64) (models.View, error)
	// Render отрисовывает текущий элемент и допустимые действия.
	Render(ctx context.Context, userID int64) (models.View, error)
}

type entry struct {
	mu       sync.Mutex
	items    []models.NewsItem
	cursor   int
	lastSeen time.Time
}

// MemoryStore — Store в памяти процесса с вытеснением по TTL простоя.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*entry

	ttl     time.Duration
	format  Formatter
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option настраивает MemoryStore.
type Option func(*MemoryStore)

// WithMetrics подключает учёт событий сессий.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *MemoryStore) { s.metrics = m }
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore создаёт хранилище. ttl <= 0 отключает вытеснение.
func NewMemoryStore(ttl time.Duration, format Formatter, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[int64]*entry),
		ttl:      ttl,
		format:   format,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MemoryStore) Start(ctx context.Context, userID int64, items []models.NewsItem) {
	e := &entry{
		items:    append([]models.NewsItem(nil), items...),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[userID] = e
	s.mu.Unlock()

	s.metrics.SessionEvent("start")
	log.From(ctx).Debug("session_started",
		slog.Int64("user_id", userID),
		slog.Int("items", len(items)),
	)
}

func (s *MemoryStore) Advance(ctx context.Context, userID int64) (models.View, error) {
	return s.update(ctx, userID, "advance", func(e *entry) {
		if e.cursor < len(e.items)-1 {
			e.cursor++
		}
	})
}

func (s *MemoryStore) Retreat(ctx context.Context, userID int64) (models.View, error) {
	return s.update(ctx, userID, "retreat", func(e *entry) {
		if e.cursor > 0 {
			e.cursor--
		}
	})
}

func (s *MemoryStore) Render(ctx context.Context, userID int64) (models.View, error) {
	return s.update(ctx, userID, "render", func(*entry) {})
}

// update выполняет move и отрисовку под мьютексом сессии.
func (s *MemoryStore) update(ctx context.Context, userID int64, event string, move func(*entry)) (models.View, error) {
	e, ok := s.lookup(userID)
	if !ok {
		s.metrics.SessionEvent("missing")
		log.From(ctx).Debug("session_missing",
			slog.Int64("user_id", userID),
			slog.String("event", event),
		)
		return models.View{Text: NoSessionText}, ErrNoSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	move(e)
	e.lastSeen = s.now()

	s.metrics.SessionEvent(event)
	return s.view(e), nil
}

// lookup возвращает живую сессию; истёкшая считается отсутствующей.
func (s *MemoryStore) lookup(userID int64) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.sessions[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if s.expired(e) {
		s.mu.Lock()
		if cur, ok := s.sessions[userID]; ok && cur == e {
			delete(s.sessions, userID)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e, true
}

func (s *MemoryStore) expired(e *entry) bool {
	if s.ttl <= 0 {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return s.now().Sub(e.lastSeen) > s.ttl
}

// view строит отображение; вызывается под e.mu.
func (s *MemoryStore) view(e *entry) models.View {
	total := len(e.items)
	if total == 0 {
		return models.View{Text: NoMoreNewsText, Actions: []models.Action{}}
	}

	actions := make([]models.Action, 0, 2)
	if e.cursor > 0 {
		actions = append(actions, models.ActionRetreat)
	}
	if e.cursor < total-1 {
		actions = append(actions, models.ActionAdvance)
	}

	return models.View{
		Text:    s.format(e.items, e.cursor, total),
		Actions: actions,
		Index:   e.cursor,
		Total:   total,
	}
}

// Sweep удаляет сессии, простаивающие дольше TTL, и возвращает их число.
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			n++
		}
	}

	s.metrics.SessionEvicted(n)
	return n
}

// Len возвращает число хранимых сессий.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run периодически вызывает Sweep до отмены ctx.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	const op = "session.MemoryStore.Run"

	if s.ttl <= 0 || interval <= 0 {
		return
	}

	lg := log.Op(ctx, op)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				lg.Info("sessions_evicted", slog.Int("count", n), slog.Int("remaining", s.Len()))
			}
		}
	}
}

var _ Store = (*MemoryStore)(nil)
