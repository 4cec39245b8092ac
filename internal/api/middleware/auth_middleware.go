package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/hivetax/hivetax-platform/internal/utils/response"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

// SessionStore is the slice of the Redis repository the middleware needs: a
// nil session with no error means the record was deleted or expired.
type SessionStore interface {
	LoadSession(ctx context.Context, userID uuid.UUID) (*models.Session, error)
}

type AuthMiddleware struct {
	jwtKey   []byte
	sessions SessionStore
}

func NewAuthMiddleware(jwtKey []byte, sessions SessionStore) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey, sessions: sessions}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format: "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims := &models.Claims{}

		token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))
				return nil, errors.BadRequestError("unexpected signing method")
			}
			return m.jwtKey, nil
		})

		if err != nil {
			logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if !token.Valid {
			logger.Warn("Invalid token")
			response.Error(w, errors.UnauthorizedError("Invalid token"))
			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			logger.Warn("Expired token", slog.String("userId", claims.UserID.String()))
			response.Error(w, errors.UnauthorizedError("Token expired"))
			return
		}

		// A valid token is not enough: the session record must still exist,
		// so logout and server-side revocation take effect immediately.
		session, err := m.sessions.LoadSession(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Session lookup failed", slog.String("error", err.Error()))
			response.Error(w, errors.ThirdPartyError("Failed to verify session"))
			return
		}

		if session == nil {
			logger.Warn("No active session for token", slog.String("userId", claims.UserID.String()))
			response.Error(w, errors.UnauthorizedError("Session expired or revoked"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		requestScopedLogger := logger.With(
			slog.String("userId", claims.UserID.String()),
			slog.String("role", string(claims.Role)))
		ctx = context.WithValue(ctx, loggerKey, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRole gates a handler to one role. It assumes Authenticate already
// ran and placed claims in the context.
func (m *AuthMiddleware) RequireRole(role models.Role, next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := r.Context().Value(UserContextKey).(*models.Claims)
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if claims.Role != role {
			LoggerFromContext(r.Context()).Warn("Role not permitted",
				slog.String("required", string(role)),
				slog.String("actual", string(claims.Role)))
			response.Error(w, errors.ForbiddenError("You do not have access to this resource"))
			return
		}

		next.ServeHTTP(w, r)
	}
}
