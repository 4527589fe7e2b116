package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

// Identity extracts the authenticated user from the X-User-Id header set by
// the upstream gateway (authentication itself lives outside this service)
// and rejects requests without a valid one.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-Id")
		if raw == "" {
			http.Error(w, "missing X-User-Id header", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			http.Error(w, "invalid X-User-Id header", http.StatusUnauthorized)
			return
		}

		ctx := ctxutil.WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
