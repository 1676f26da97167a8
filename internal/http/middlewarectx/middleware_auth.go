// Package middlewarectx содержит HTTP middleware сервиса аккаунтов.
//
// IdentityMiddleware строит контекст доступа запроса: разбирает заголовок
// Authorization, проверяет JWT и кладёт разрешённого пользователя (без хэша
// пароля) в контекст. Сбой проверки не отклоняет запрос: личность остаётся
// анонимной, а отказ происходит позже, в guard-проверках операций.
package middlewarectx

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// UserKey — ключ, под которым в контексте лежит *models.User.
const UserKey Key = "user"

// IdentityService описывает разрешение личности по заголовку Authorization.
type IdentityService interface {
	ResolveIdentity(ctx context.Context, authHeader string) *models.User
}

// IdentityMiddleware возвращает middleware, которое строит личность запроса.
//
// Личность кладётся в контекст один раз на запрос и нигде не кешируется
// между запросами. Запрос всегда передается дальше, даже анонимный.
func IdentityMiddleware(authService IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := authService.ResolveIdentity(r.Context(), r.Header.Get("Authorization"))
			if user != nil {
				ctx := context.WithValue(r.Context(), UserKey, user)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser достает личность запроса из контекста.
// Возвращает nil для анонимного запроса.
func CurrentUser(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
