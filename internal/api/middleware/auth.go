package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const (
	HeaderUserID        = "X-User-ID"
	HeaderCountry       = "X-Geo-Country"
	HeaderInternalToken = "X-Internal-Token"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidToken  = "некорректный служебный токен"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	countryKey
)

// Auth извлекает ID пользователя из заголовка X-User-ID.
// Аутентификация выполняется на gateway, сервис доверяет заголовку.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя, сохраненный middleware Auth
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// Country сохраняет страну клиента из заголовка X-Geo-Country
// Значение: код ISO-3166 alpha-2 ("IN") или английское название ("India")
func Country(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		country := strings.ToUpper(strings.TrimSpace(r.Header.Get(HeaderCountry)))
		if country == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), countryKey, country)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCountry возвращает страну клиента; пустая строка, если заголовок не передан
func GetCountry(ctx context.Context) string {
	country, _ := ctx.Value(countryKey).(string)
	return country
}

// InternalToken пропускает только запросы с корректным служебным токеном.
// Если токен не задан, все запросы отклоняются.
func InternalToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderInternalToken)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				handlers.RespondForbidden(w, msgInvalidToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
