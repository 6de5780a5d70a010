package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const ownerIDKey contextKey = "authenticatedOwnerID"

// Claims is the token payload issued by the identity provider. The subject
// UserID is the stable owner identity used for storage paths and record
// filters.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// OwnerIDFromContext returns the authenticated owner set by JWTAuth.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(string)
	return ownerID, ok && ownerID != ""
}

// JWTAuth validates the Bearer token and stores the owner ID in the request
// context. Requests without a valid token never reach a workflow.
func JWTAuth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "authorization token is not provided")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				logger.Warn("auth: token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "token has expired")
					return
				}
				unauthorized(w, "token is invalid")
				return
			}
			if !token.Valid || claims.UserID == "" {
				logger.Warn("auth: token valid but owner missing", zap.String("path", r.URL.Path))
				unauthorized(w, "token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), ownerIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithOwnerID injects an owner identity directly, for tests.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
