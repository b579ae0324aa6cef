package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/infomonitor/internal/transport/http/handlers"
	"github.com/pribylovaa/infomonitor/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// Metrics — обработчик /metrics; nil -> promhttp.Handler().
	Metrics http.Handler
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Пробы и метрики вне цепочки: не логируются и не ограничиваются таймаутом.
	metricsHandler := opts.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	root.Get("/livez", h.Livez)
	root.Get("/healthz", h.Healthz)
	root.Method(http.MethodGet, "/metrics", metricsHandler)

	root.Group(func(r chi.Router) {
		// Middleware (внешний -> внутренний).
		r.Use(
			middleware.RequestID(),          // X-Request-Id до логирования
			middleware.Logging(opts.Logger), // request-scoped логгер в контексте
			middleware.Recover(),            // паника -> 500 с request_id
		)
		if opts.Timeout > 0 {
			r.Use(middleware.Timeout(opts.Timeout))
		}

		registerRoutes(r, h)
	})

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// чат
	r.Post("/v1/updates", h.Updates)

	// новости
	r.Get("/v1/news", h.ListNews)
	r.Get("/v1/digest", h.Digest)

	// сессии пагинации
	r.Post("/v1/users/{user_id}/session", h.StartSession)
	r.Get("/v1/users/{user_id}/session", h.GetSession)
	r.Post("/v1/users/{user_id}/session/next", h.NextNews)
	r.Post("/v1/users/{user_id}/session/prev", h.PrevNews)
}
