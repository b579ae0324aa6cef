// delivery доставляет тексты рассылки подписчикам.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/internal/service"
	"github.com/pribylovaa/infomonitor/pkg/log"
	"github.com/pribylovaa/infomonitor/pkg/redact"
)

// Options — параметры webhook-доставки.
type Options struct {
	URL string
	// Timeout — таймаут одной попытки.
	Timeout time.Duration
	// MaxRetries — число повторов после первой попытки.
	MaxRetries uint64
	// RPS/Burst — общий лимит отправок.
	RPS   float64
	Burst int
	// InitialInterval — первая пауза экспоненциального backoff (по умолчанию 500ms).
	InitialInterval time.Duration
}

// message — тело запроса к чат-фронтенду.
type message struct {
	UserID    int64  `json:"user_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Webhook отправляет сообщение POST-запросом на URL чат-фронтенда.
// Повторяет попытки при сетевых ошибках, 429 и 5xx; прочие 4xx не повторяются.
// Все попытки одного сообщения несут один Idempotency-Key.
type Webhook struct {
	client     *http.Client
	url        string
	timeout    time.Duration
	maxRetries uint64
	initial    time.Duration
	limiter    *rate.Limiter
}

// NewWebhook создаёт Webhook. client == nil -> http.Client без таймаута (таймаут задаётся на попытку).
func NewWebhook(client *http.Client, opts Options) *Webhook {
	if client == nil {
		client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RPS <= 0 {
		opts.RPS = 25
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}

	return &Webhook{
		client:     client,
		url:        opts.URL,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		initial:    opts.InitialInterval,
		limiter:    rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
	}
}

// Notify доставляет text подписчику sub.
func (w *Webhook) Notify(ctx context.Context, sub models.Subscriber, text string) error {
	const op = "delivery.Webhook.Notify"

	body, err := json.Marshal(message{UserID: sub.UserID, Text: text, ParseMode: "Markdown"})
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	key := uuid.NewString()
	attempt := 0

	send := func() error {
		attempt++

		if err := w.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		return w.post(ctx, body, key)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = w.initial
	eb.MaxInterval = 30 * time.Second
	eb.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, w.maxRetries), ctx)

	if err := backoff.Retry(send, policy); err != nil {
		return fmt.Errorf("%s: user_id=%d attempts=%d: %w", op, sub.UserID, attempt, err)
	}

	if attempt > 1 {
		log.Op(ctx, op).Debug("delivered_after_retry",
			slog.Int64("user_id", sub.UserID),
			slog.Int("attempts", attempt),
		)
	}

	return nil
}

// post выполняет одну попытку; неповторяемые ошибки оборачиваются в backoff.Permanent.
func (w *Webhook) post(ctx context.Context, body []byte, key string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	resp, err := w.client.Do(req)
	if err != nil {
		// *url.Error содержит адрес webhook-а, а в нём может быть токен бота.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redact.URL(uerr.URL)
		}
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("status=%d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("status=%d", resp.StatusCode))
	}
}

// LogNotifier только логирует рассылку; используется без настроенного delivery.url.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, sub models.Subscriber, text string) error {
	log.Op(ctx, "delivery.LogNotifier.Notify").Info("digest_prepared",
		slog.Int64("user_id", sub.UserID),
		slog.Int("chars", len([]rune(text))),
	)
	return nil
}

var (
	_ service.Notifier = (*Webhook)(nil)
	_ service.Notifier = LogNotifier{}
)
