package middleware

import (
	"context"
	"net/http"
	"strings"

	"quickcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey string

const ctxUserID ctxKey = "user_id"

// TokenParser resolves an access token to the user it was issued for.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxUserID, userID)
}

// UserIDFromContext returns the authenticated user id, or uuid.Nil for anonymous requests.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// Authenticate requires a valid bearer token and stores its user id in the request context.
func Authenticate(tokens TokenParser, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing credentials")
				return
			}

			userID, err := tokens.Parse(token)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected access token")
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
