// handlers содержит HTTP-обработчики ИнфоМонитора: webhook чат-фронтенда,
// REST-доступ к агрегатору и сессиям пагинации, пробы живости.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/infomonitor/internal/bot"
	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/internal/service"
	"github.com/pribylovaa/infomonitor/internal/session"
)

// NewsService — операции агрегатора, доступные транспорту.
type NewsService interface {
	FetchLatest(ctx context.Context, limit int, category string) ([]models.NewsItem, error)
	Digest(ctx context.Context) (string, error)
}

// Dialog — обработчик событий чата.
type Dialog interface {
	Handle(ctx context.Context, upd bot.Update) bot.Reply
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	News     NewsService
	Sessions session.Store
	Bot      Dialog
	// Ready — проверка готовности зависимостей (БД); nil — всегда готов.
	Ready func(ctx context.Context) error
	// DefaultLimit — limit по умолчанию для /v1/news и сессий.
	DefaultLimit int
}

// newsResponse — ответ GET /v1/news.
type newsResponse struct {
	Items []models.NewsItem `json:"items"`
	Count int               `json:"count"`
}

// digestResponse — ответ GET /v1/digest.
type digestResponse struct {
	Text string `json:"text"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — JSON-декодер, запрещающий неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// limitParam разбирает ?limit=; пустое значение -> DefaultLimit.
// Значения < 1 отдаются сервису как есть: он отвечает ErrInvalidArgument.
func (h *Handlers) limitParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return h.DefaultLimit, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, service.ErrInvalidArgument
	}
	return n, nil
}

// userIDParam разбирает {user_id} из пути.
func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		return 0, service.ErrInvalidArgument
	}
	return id, nil
}
