package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const storeIDKey contextKey = "store_id"

// JWTAuthMiddleware validates the vendor bearer token issued by the auth
// provider and injects the store id claim into the request context.
// An empty secret disables the guard, which is the local development mode.
func JWTAuthMiddleware(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Token de autenticação não fornecido")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "Formato de token inválido")
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Debug("token validation failed", zap.Error(err))
				writeError(w, http.StatusUnauthorized, "Token inválido ou expirado")
				return
			}

			storeID, _ := claims["store_id"].(string)
			if storeID == "" {
				// Supabase tokens carry the tenant in sub.
				storeID, _ = claims["sub"].(string)
			}

			ctx := context.WithValue(r.Context(), storeIDKey, storeID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StoreIDFromContext returns the authenticated store id, if any.
func StoreIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(storeIDKey).(string)
	return id
}
