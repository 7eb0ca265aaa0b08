package handler

import (
	"context"
	"net/http"
	"strings"

	"quickchat/internal/pkg/auth"
	"quickchat/internal/pkg/httputils"
)

type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware проверяет Bearer-токен и кладёт ID пользователя в контекст
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := r.Header.Get("Authorization")
		if tokenStr == "" {
			httputils.ResponseError(w, http.StatusUnauthorized, "no authorization header")
			return
		}

		if len(tokenStr) > 7 && strings.EqualFold(tokenStr[:7], "bearer ") {
			tokenStr = tokenStr[7:]
		}

		claims, err := auth.ValidateToken(tokenStr)
		if err != nil {
			httputils.ResponseError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUserID возвращает ID аутентифицированного пользователя из контекста
func CurrentUserID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey).(uint)
	return id, ok
}
