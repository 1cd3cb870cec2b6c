package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dentistqueue/DQ-BookingService/internal/api/handlers"
)

// HeaderUserID заголовок с ID аутентифицированного пользователя.
// Проставляется API gateway после проверки токена; сервис доверяет значению.
const HeaderUserID = "X-User-ID"

type userIDKey struct{}

const (
	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный формат X-User-ID"
)

// Auth middleware аутентификации: извлекает ID актора из заголовка
// и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID достает ID актора из контекста запроса
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok
}
