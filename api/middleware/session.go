package middleware

import (
	"context"
	"net/http"

	"github.com/davidnier/storefront-backend/pkg/config"
	"github.com/davidnier/storefront-backend/pkg/logger"
	"github.com/davidnier/storefront-backend/pkg/session"
)

type contextKey string

const ctxSessionID contextKey = "cart_session_id"

// CartSession resolves the shopper's cart session from the configured
// cookie, minting a new session ID when none is presented. The cookie is
// host-only and HttpOnly; the cart it points at lives server side.
func CartSession(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.SessionCookie); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			}

			if sessionID == "" {
				sessionID = session.NewSessionID()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.SessionCookie,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cfg.SessionTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ctxSessionID, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the cart session ID resolved by CartSession,
// or empty when the middleware did not run.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}
