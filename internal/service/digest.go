package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/infomonitor/pkg/log"
)

// PushReport — итог одной рассылки.
type PushReport struct {
	Recipients int `json:"recipients"`
	Delivered  int `json:"delivered"`
	Failed     int `json:"failed"`
	// Skipped — рассылка не выполнялась: новостей нет.
	Skipped bool `json:"skipped"`
}

// BuildDigest загружает digest.limit свежих новостей и собирает текст утреннего дайджеста.
// Пустой результат агрегации -> ("", false, nil). Собранный текст кладётся в кэш.
func (s *Service) BuildDigest(ctx context.Context) (string, bool, error) {
	const op = "service.digest.BuildDigest"

	items, err := s.FetchLatest(ctx, s.cfg.Digest.Limit, "")
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	if len(items) == 0 {
		return "", false, nil
	}

	text := digestGreeting + FormatDigest(items)

	if err := s.cache.Set(ctx, text, s.cfg.Redis.DigestTTL); err != nil {
		log.Op(ctx, op).Warn("digest_cache_set_failed", slog.String("err", err.Error()))
	}

	return text, true, nil
}

// Digest возвращает последний дайджест из кэша или собирает новый.
// Если новостей нет — возвращает NoNewsText.
func (s *Service) Digest(ctx context.Context) (string, error) {
	const op = "service.digest.Digest"

	text, ok, err := s.cache.Get(ctx)
	if err != nil {
		log.Op(ctx, op).Warn("digest_cache_get_failed", slog.String("err", err.Error()))
	}
	if ok {
		return text, nil
	}

	text, ok, err = s.BuildDigest(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return NoNewsText, nil
	}

	return text, nil
}

// PushDigest собирает дайджест и доставляет его каждому подписчику.
// Ошибка доставки одному получателю логируется и учитывается, но не прерывает рассылку.
// Сессии пагинации не затрагиваются.
func (s *Service) PushDigest(ctx context.Context) (PushReport, error) {
	const op = "service.digest.PushDigest"

	lg := log.Op(ctx, op)

	if s.subscribers == nil || s.notifier == nil {
		return PushReport{}, fmt.Errorf("%s: subscribers or notifier not configured", op)
	}

	text, ok, err := s.BuildDigest(ctx)
	if err != nil {
		return PushReport{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		lg.Info("digest_skipped_no_news")
		return PushReport{Skipped: true}, nil
	}

	subs, err := s.subscribers.ListSubscribers(ctx)
	if err != nil {
		return PushReport{}, fmt.Errorf("%s: list_subscribers: %w", op, err)
	}

	report := PushReport{Recipients: len(subs)}

	for _, sub := range subs {
		if ctx.Err() != nil {
			return report, fmt.Errorf("%s: %w", op, ctx.Err())
		}

		err := s.notifier.Notify(ctx, sub, text)
		s.metrics.Delivery(err)

		if err != nil {
			report.Failed++
			lg.Warn("digest_delivery_failed",
				slog.Int64("user_id", sub.UserID),
				slog.String("err", err.Error()),
			)
			continue
		}
		report.Delivered++
	}

	lg.Info("digest_pushed",
		slog.Int("recipients", report.Recipients),
		slog.Int("delivered", report.Delivered),
		slog.Int("failed", report.Failed),
	)

	return report, nil
}

// StartDailyDigest блокируется до отмены ctx, запуская PushDigest
// каждый день в digest.at (UTC). Ошибка одного запуска не останавливает цикл.
func (s *Service) StartDailyDigest(ctx context.Context) error {
	const op = "service.digest.StartDailyDigest"

	hour, minute, err := s.cfg.Digest.DigestClock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	lg := log.Op(ctx, op)

	for {
		next := nextRun(s.now(), hour, minute)
		lg.Info("digest_scheduled", slog.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if _, err := s.PushDigest(ctx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("digest_push_failed", slog.String("err", err.Error()))
		}
	}
}

// nextRun возвращает ближайший момент hour:minute UTC строго после now.
func nextRun(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
