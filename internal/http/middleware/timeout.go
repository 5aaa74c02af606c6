package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout ограничивает запрос дедлайном d. Более ранний входящий дедлайн
// сохраняется (context.WithTimeout берёт минимум). d <= 0 делает мидлвар no-op.
//
// Истёкший дедлайн доходит до хранилища как context.DeadlineExceeded
// и превращается в 500.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
