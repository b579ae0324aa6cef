package service

import (
	"context"
	"time"

	"github.com/pribylovaa/infomonitor/internal/models"
)

// Parser описывает загрузчик лент, который параллельно обрабатывает
// несколько источников и возвращает сырые доменные объекты.
//
// Требования к реализации:
//  1. Title/Description — как в ленте (очистку выполняет сервис);
//  2. Source — исходный id источника;
//  3. записи — в порядке документа ленты;
//  4. реализация обязана уважать ctx и ограничивать время на источник.
//
// ParseMany должен отправить ровно один ParseResult на каждый источник и затем закрыть канал.
// Порядок результатов не гарантируется.
type Parser interface {
	ParseMany(ctx context.Context, sources []models.Source) <-chan ParseResult
}

// ParseResult — результат загрузки одной ленты.
// Если Err != nil, Items игнорируются.
type ParseResult struct {
	Source  models.Source
	Items   []models.NewsItem
	Err     error
	Elapsed time.Duration
}
