package handlers

import (
	"net/http"
	"strings"

	"github.com/pribylovaa/infomonitor/internal/bot"
	"github.com/pribylovaa/infomonitor/internal/service"
	"github.com/pribylovaa/infomonitor/internal/transport/http/apierrors"
)

// Updates — POST /v1/updates: событие чата -> ответ диалога.
// Тело: {"user_id", "username", "text" | "callback_data"}.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	var upd bot.Update
	if err := decodeStrict(r, &upd); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	if upd.UserID == 0 || (strings.TrimSpace(upd.Text) == "" && upd.CallbackData == "") {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	writeJSON(w, http.StatusOK, h.Bot.Handle(r.Context(), upd))
}
