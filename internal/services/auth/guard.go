package services

import (
	"slices"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// RequireAuth требует установленную личность. Проверка чистая,
// без обращений к базе и повторной валидации токена.
func RequireAuth(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireRole требует установленную личность с одной из перечисленных ролей.
// Анонимный запрос дает ErrUnauthenticated, недостаточная роль — ErrForbidden.
func RequireRole(user *models.User, allowedRoles ...string) (*models.User, error) {
	user, err := RequireAuth(user)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(allowedRoles, user.Role) {
		return nil, ErrForbidden
	}
	return user, nil
}
