package handlers

import (
	"net/http"
	"strings"

	"github.com/pribylovaa/infomonitor/internal/transport/http/apierrors"
)

// ListNews — GET /v1/news?limit=&category=.
func (h *Handlers) ListNews(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, newsResponse{Items: items, Count: len(items)})
}

// Digest — GET /v1/digest: последний дайджест из кэша или свежесобранный.
func (h *Handlers) Digest(w http.ResponseWriter, r *http.Request) {
	text, err := h.News.Digest(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, digestResponse{Text: text})
}
