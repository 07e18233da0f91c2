package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/service"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	tokenKey  contextKey = "sessionToken"
)

// Auth verifies the opaque bearer token against the session store and
// stashes the resolved profile id and token in the request context.
// Failures return the standard envelope with the data stripped.
func Auth(sessions *service.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token := ""
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}

			session, err := sessions.Verify(r.Context(), token)
			if err != nil {
				logrus.WithField("path", r.URL.Path).Debug("session verification failed")
				writeUnauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, session.UserID)
			ctx = context.WithValue(ctx, tokenKey, session.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":              true,
		"message":            "User is not authenticated",
		"errorCodeForClient": "unauthenticated",
		"statusCode":         http.StatusUnauthorized,
		"data":               nil,
	})
}

// GetUserID returns the authenticated profile id stashed by Auth.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// GetToken returns the bearer token stashed by Auth.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
