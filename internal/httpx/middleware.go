package httpx

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

type contextKey string

const (
	ctxKeyBuyerID    contextKey = "buyer_id"
	ctxKeyAuthHeader contextKey = "auth_header"
)

// RequireAuth проверяет учётные данные запроса через IdentityVerifier и кладёт
// идентификатор покупателя и исходный заголовок авторизации в контекст.
// Заголовок сохраняется целиком: дальше по цепочке он пробрасывается удалённым
// сервисам без изменений.
func RequireAuth(verifier domain.IdentityVerifier, logger *log.Entry) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.New().WithField("component", "auth-middleware")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			buyerID, err := verifier.Verify(r.Context(), authHeader)
			if err != nil {
				logger.WithError(err).Debug("identity verification rejected")
				writeDetail(w, http.StatusUnauthorized, "Invalid token.")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyBuyerID, buyerID)
			ctx = context.WithValue(ctx, ctxKeyAuthHeader, authHeader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// buyerFromContext возвращает идентификатор покупателя, положенный RequireAuth.
func buyerFromContext(ctx context.Context) string {
	buyerID, _ := ctx.Value(ctxKeyBuyerID).(string)
	return buyerID
}

// authHeaderFromContext возвращает исходный заголовок авторизации запроса.
func authHeaderFromContext(ctx context.Context) string {
	header, _ := ctx.Value(ctxKeyAuthHeader).(string)
	return header
}
