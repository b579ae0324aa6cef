// rss реализует service.Parser поверх gofeed (RSS 0.9x/1.0/2.0, Atom, JSON Feed).
package rss

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/internal/service"
	"github.com/pribylovaa/infomonitor/pkg/log"
)

// maxFeedBytes — верхняя граница размера тела ленты.
const maxFeedBytes = 10 << 20

// Options — параметры парсера.
type Options struct {
	// MaxConcurrent — ограничение одновременных загрузок (по умолчанию 6).
	MaxConcurrent int
	// Timeout — таймаут одного источника (по умолчанию 10s).
	Timeout time.Duration
	// UserAgent — заголовок User-Agent запросов.
	UserAgent string
}

// Parser реализует service.Parser.
// Возвращает сырые записи ленты в порядке документа: текст не очищен,
// Source — исходный id источника. Нормализацию выполняет сервис.
//
// Параллелизм ограничен семафором maxConc, каждый источник получает
// собственный дедлайн timeout поверх входящего ctx.
type Parser struct {
	client    *http.Client
	maxConc   int
	timeout   time.Duration
	userAgent string
}

// New создаёт новый RSS-парсер. HTTP-клиент настраивается извне (прокси, транспорт).
func New(client *http.Client, opts Options) *Parser {
	if client == nil {
		client = &http.Client{}
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 6
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Parser{
		client:    client,
		maxConc:   opts.MaxConcurrent,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
	}
}

// ParseMany загружает ленты конкурентно и отдаёт по одному результату на источник.
// Канал закрывается после того, как все загрузки завершились (успехом, ошибкой или таймаутом).
func (p *Parser) ParseMany(ctx context.Context, sources []models.Source) <-chan service.ParseResult {
	output := make(chan service.ParseResult, len(sources))

	go func() {
		defer close(output)

		sem := make(chan struct{}, p.maxConc)
		var wg sync.WaitGroup

		for _, src := range sources {
			select {
			case <-ctx.Done():
				output <- service.ParseResult{Source: src, Err: ctx.Err()}
				continue
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func(src models.Source) {
				defer wg.Done()
				defer func() { <-sem }()

				start := time.Now()
				items, err := p.fetchOne(ctx, src)

				output <- service.ParseResult{
					Source:  src,
					Items:   items,
					Err:     err,
					Elapsed: time.Since(start),
				}
			}(src)
		}

		wg.Wait()
	}()

	return output
}

// fetchOne загружает и парсит ленту одного источника.
func (p *Parser) fetchOne(ctx context.Context, src models.Source) ([]models.NewsItem, error) {
	const op = "rss.fetchOne"

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		log.From(ctx).Debug("http_error",
			slog.String("op", op),
			slog.String("source", src.ID),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxFeedBytes))
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	// gofeed.Parser хранит состояние разбора — отдельный экземпляр на запрос.
	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", op, err)
	}

	output := make([]models.NewsItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		output = append(output, toNewsItem(item, src))
	}

	return output, nil
}

// toNewsItem переносит поля записи gofeed в доменную модель без очистки текста.
func toNewsItem(item *gofeed.Item, src models.Source) models.NewsItem {
	description := item.Description
	if strings.TrimSpace(description) == "" {
		description = item.Content
	}

	published := strings.TrimSpace(item.Published)
	if published == "" {
		published = strings.TrimSpace(item.Updated)
	}

	var publishedAt time.Time
	switch {
	case item.PublishedParsed != nil:
		publishedAt = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		publishedAt = item.UpdatedParsed.UTC()
	}

	link := item.Link
	if strings.TrimSpace(link) == "" && len(item.Links) > 0 {
		link = item.Links[0]
	}

	return models.NewsItem{
		Title:       item.Title,
		Description: description,
		Link:        canonicalLink(link, item.GUID),
		Source:      src.ID,
		Published:   published,
		PublishedAt: publishedAt,
	}
}

// canonicalLink нормализует ссылку: убирает фрагмент и трекинг.
// Пустая ссылка заменяется guid, если тот является абсолютным URL.
func canonicalLink(raw, guid string) string {
	str := strings.TrimSpace(raw)

	if str == "" {
		if g := strings.TrimSpace(guid); strings.HasPrefix(g, "http://") || strings.HasPrefix(g, "https://") {
			str = g
		}
	}

	u, err := url.Parse(str)
	if err != nil {
		return str
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return str
	}

	u.Fragment = ""
	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || strings.HasSuffix(lk, "clid") || strings.HasPrefix(lk, "mc_") {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}

var _ service.Parser = (*Parser)(nil)
