package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Balamathankumar/store-front/pkg/logger"
)

// Cookie names used by the storefront.
const (
	SessionCookie = "storefront_session"
	AuthCookie    = "storefront_token"
)

// ContentTypeJSON sets the Content-Type response header to application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Session assigns every shopper a session cookie. The session ID keys the
// cart, so a first-time visitor gets a fresh ID and a returning one keeps
// their cart across visits. The ID lands in the request context for handlers
// and log enrichment.
func Session(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				sessionID = c.Value
			} else {
				sessionID = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := logger.WithSessionID(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionID extracts the session ID placed in the context by Session.
func sessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}
