// service содержит бизнес-логику ИнфоМонитора: агрегацию лент,
// форматирование новостей и ежедневную рассылку.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/infomonitor/internal/cache"
	"github.com/pribylovaa/infomonitor/internal/config"
	"github.com/pribylovaa/infomonitor/internal/metrics"
	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные аргументы (limit < 1 и т.п.).
	// Транспорт: codes.InvalidArgument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownCategory — категория отсутствует в конфигурации.
	// Оборачивает ErrInvalidArgument.
	ErrUnknownCategory = fmt.Errorf("unknown category: %w", ErrInvalidArgument)
)

// Notifier доставляет текст одному подписчику.
type Notifier interface {
	Notify(ctx context.Context, sub models.Subscriber, text string) error
}

// Deps — внешние зависимости сервиса.
// Parser обязателен; остальные могут быть nil, если соответствующая функция не используется.
type Deps struct {
	Parser      Parser
	Subscribers storage.SubscriberStorage
	Notifier    Notifier
	Cache       cache.DigestCache
	Metrics     *metrics.Metrics
}

// Service — агрегатор новостей. Не хранит пользовательского состояния.
type Service struct {
	cfg         config.Config
	parser      Parser
	subscribers storage.SubscriberStorage
	notifier    Notifier
	cache       cache.DigestCache
	metrics     *metrics.Metrics
	now         func() time.Time
}

// New создает новый экземпляр Service.
func New(cfg config.Config, deps Deps) *Service {
	dc := deps.Cache
	if dc == nil {
		dc = cache.Noop{}
	}

	return &Service{
		cfg:         cfg,
		parser:      deps.Parser,
		subscribers: deps.Subscribers,
		notifier:    deps.Notifier,
		cache:       dc,
		metrics:     deps.Metrics,
		now:         time.Now,
	}
}

// Categories возвращает известные категории (ключ -> отображаемое имя).
func (s *Service) Categories() map[string]string {
	out := make(map[string]string, len(s.cfg.Categories))
	for k, v := range s.cfg.Categories {
		out[k] = v
	}
	return out
}
