package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/internal/transport/http/apierrors"
)

// StartSession — POST /v1/users/{user_id}/session?limit=&category=:
// загружает новости, заменяет сессию пользователя и отрисовывает первую новость.
func (h *Handlers) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	limit, err := h.limitParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))

	items, err := h.News.FetchLatest(r.Context(), limit, category)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.Sessions.Start(r.Context(), userID, items)
	h.writeView(w, r, userID, h.Sessions.Render)
}

// GetSession — GET /v1/users/{user_id}/session.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.Sessions.Render)
}

// NextNews — POST /v1/users/{user_id}/session/next.
func (h *Handlers) NextNews(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.Sessions.Advance)
}

// PrevNews — POST /v1/users/{user_id}/session/prev.
func (h *Handlers) PrevNews(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.Sessions.Retreat)
}

type viewFunc func(ctx context.Context, userID int64) (models.View, error)

func (h *Handlers) navigate(w http.ResponseWriter, r *http.Request, step viewFunc) {
	userID, err := userIDParam(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.writeView(w, r, userID, step)
}

func (h *Handlers) writeView(w http.ResponseWriter, r *http.Request, userID int64, step viewFunc) {
	view, err := step(r.Context(), userID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
