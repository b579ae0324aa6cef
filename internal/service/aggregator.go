package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/pkg/log"
)

const (
	defaultTitle       = "Без заголовка"
	defaultDescription = "Описание отсутствует"
)

// FetchLatest возвращает до limit свежих новостей со всех источников
// (или только с источников категории category, если она не пуста).
//
// Правила:
//   - limit < 1 -> ErrInvalidArgument; неизвестная категория -> ErrUnknownCategory;
//   - источники вне категории не загружаются;
//   - с каждого источника берутся первые cfg.Fetcher.PerSource записей ленты;
//   - ошибка источника логируется, источник даёт ноль записей и не влияет на остальные;
//   - результат отсортирован по PublishedAt по убыванию, записи без даты — в конце,
//     при равенстве сохраняется порядок реестра источников;
//   - отсутствие новостей — пустой срез и nil, а не ошибка.
func (s *Service) FetchLatest(ctx context.Context, limit int, category string) ([]models.NewsItem, error) {
	const op = "service.aggregator.FetchLatest"

	if limit < 1 {
		return nil, fmt.Errorf("%s: limit=%d: %w", op, limit, ErrInvalidArgument)
	}

	if category != "" {
		if _, ok := s.cfg.Categories[category]; !ok {
			return nil, fmt.Errorf("%s: %q: %w", op, category, ErrUnknownCategory)
		}
	}

	lg := log.Op(ctx, op)

	sources := s.eligibleSources(category)
	if len(sources) == 0 {
		lg.Info("fetch_no_sources", slog.String("category", category))
		return []models.NewsItem{}, nil
	}

	position := make(map[string]int, len(sources))
	for i, src := range sources {
		position[src.ID] = i
	}

	perSource := make([][]models.NewsItem, len(sources))
	var failed int

	for result := range s.parser.ParseMany(ctx, sources) {
		idx, ok := position[result.Source.ID]
		if !ok {
			continue
		}

		s.metrics.ObserveFetch(result.Source.ID, result.Err, result.Elapsed)

		if result.Err != nil {
			failed++
			lg.Warn("source_failed",
				slog.String("source", result.Source.ID),
				slog.String("err", result.Err.Error()),
			)
			continue
		}

		raw := result.Items
		if len(raw) > s.cfg.Fetcher.PerSource {
			raw = raw[:s.cfg.Fetcher.PerSource]
		}

		items := make([]models.NewsItem, 0, len(raw))
		for _, item := range raw {
			items = append(items, s.finalizeItem(item, result.Source))
		}
		perSource[idx] = items
	}

	merged := make([]models.NewsItem, 0, len(sources)*s.cfg.Fetcher.PerSource)
	for _, items := range perSource {
		merged = append(merged, items...)
	}

	sortByRecency(merged)

	if len(merged) > limit {
		merged = merged[:limit]
	}

	lg.Info("fetch_latest_done",
		slog.String("category", category),
		slog.Int("sources", len(sources)),
		slog.Int("sources_failed", failed),
		slog.Int("items", len(merged)),
	)

	return merged, nil
}

// eligibleSources возвращает источники реестра в исходном порядке,
// отфильтрованные по категории (пустая категория — все источники).
func (s *Service) eligibleSources(category string) []models.Source {
	out := make([]models.Source, 0, len(s.cfg.Sources))
	for _, src := range s.cfg.Sources {
		if category != "" && !src.HasCategory(category) {
			continue
		}
		out = append(out, src)
	}
	return out
}

// finalizeItem доводит сырую запись до инвариантов NewsItem:
// текст очищен и ограничен, пустые заголовок/описание заменены заглушками,
// источник — в верхнем регистре.
func (s *Service) finalizeItem(item models.NewsItem, src models.Source) models.NewsItem {
	title := cleanText(item.Title, s.cfg.Limits.Title)
	if title == "" {
		title = cleanText(defaultTitle, s.cfg.Limits.Title)
	}

	description := cleanText(item.Description, s.cfg.Limits.Description)
	if description == "" {
		description = cleanText(defaultDescription, s.cfg.Limits.Description)
	}

	return models.NewsItem{
		Title:       title,
		Description: description,
		Link:        strings.TrimSpace(item.Link),
		Source:      strings.ToUpper(src.ID),
		Published:   strings.TrimSpace(item.Published),
		PublishedAt: item.PublishedAt,
	}
}

// sortByRecency — стабильная сортировка по убыванию PublishedAt.
// Нулевое время — минимальный ключ, такие записи уходят в конец.
func sortByRecency(items []models.NewsItem) {
	slices.SortStableFunc(items, func(a, b models.NewsItem) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}
