package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout навешивает дедлайн d на запрос без собственного дедлайна; d <= 0 — no-op.
// Дедлайн должен покрывать fetcher.timeout, иначе /news обрывается раньше загрузки лент.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
