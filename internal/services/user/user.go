// Package services содержит бизнес-логику операций над учётными записями:
// регистрация, список, просмотр своих данных, обновление и мягкое удаление.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/account-service/internal/lib/password"
	"github.com/magabrotheeeer/account-service/internal/models"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// ErrInvalidRole роль не входит в допустимый набор.
var ErrInvalidRole = errors.New("invalid role")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// ExistsByEmailOrUsername проверяет занятость email или username.
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	// GetUserByUID возвращает живого пользователя по UID.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	// ListUsers возвращает живых пользователей по убыванию даты создания.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// UpdateUser обновляет непустые поля и возвращает число затронутых строк.
	UpdateUser(ctx context.Context, userUID string, username, email, role, passwordHash *string) (int64, error)
	// SoftDeleteUser помечает запись удалённой и возвращает число затронутых строк.
	SoftDeleteUser(ctx context.Context, userUID string) (int64, error)
}

// UserService реализует операции над учётными записями. Каждая операция —
// композиция guard-проверки, хэширования и обращения к хранилищу.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Create регистрирует нового пользователя и возвращает запись без хэша.
//
// Дубликат email или username дает repository.ErrUserExists как при
// предварительной проверке, так и при срабатывании ограничения
// уникальности в базе во время гонки.
func (s *UserService) Create(ctx context.Context, username, email, rawPassword, role string) (*models.User, error) {
	const op = "services.user.Create"

	role, ok := models.ParseRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, repository.ErrUserExists
	}

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.repo.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("created new user", slog.String("useruid", uid), slog.String("username", username))

	created, err := s.repo.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created.Sanitize(), nil
}

// List возвращает пользователей по убыванию даты создания, без хэшей.
// Доступно ролям ADMIN и MANAGER.
func (s *UserService) List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error) {
	if _, err := authservice.RequireRole(actor, models.RoleAdmin, models.RoleManager); err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]*models.User, 0, len(users))
	for _, u := range users {
		result = append(result, u.Sanitize())
	}
	return result, nil
}

// Me возвращает личность вызывающего. Требует аутентификации.
func (s *UserService) Me(actor *models.User) (*models.User, error) {
	return authservice.RequireAuth(actor)
}

// Update обновляет учётную запись. Пользователь может менять только себя,
// чужой UID доступен только роли ADMIN.
//
// Пароль проходит через хэширование только если поле присутствует
// и отличается от текущего: явная ветка вместо неявного хука записи.
func (s *UserService) Update(ctx context.Context, actor *models.User, targetUID string, data models.UpdateUserData) (*models.User, error) {
	const op = "services.user.Update"

	actor, err := authservice.RequireAuth(actor)
	if err != nil {
		return nil, err
	}
	if actor.UID != targetUID && actor.Role != models.RoleAdmin {
		return nil, authservice.ErrForbidden
	}

	if data.Role != nil {
		role, ok := models.ParseRole(*data.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		data.Role = &role
	}

	current, err := s.repo.GetUserByUID(ctx, targetUID)
	if err != nil {
		return nil, err
	}

	var passwordHash *string
	if data.Password != nil {
		if password.CompareHash(current.PasswordHash, *data.Password) != nil {
			hash, err := password.GetHash(*data.Password)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			passwordHash = &hash
		}
	}

	count, err := s.repo.UpdateUser(ctx, targetUID, data.Username, data.Email, data.Role, passwordHash)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, repository.ErrUserNotFound
	}
	s.log.Info("updated user", slog.String("useruid", targetUID))

	updated, err := s.repo.GetUserByUID(ctx, targetUID)
	if err != nil {
		return nil, err
	}
	return updated.Sanitize(), nil
}

// Delete помечает учётную запись удалённой. Доступно только роли ADMIN.
// Уже удалённая запись дает repository.ErrUserNotFound. Строка в базе
// сохраняется.
func (s *UserService) Delete(ctx context.Context, actor *models.User, targetUID string) (string, error) {
	if _, err := authservice.RequireRole(actor, models.RoleAdmin); err != nil {
		return "", err
	}

	target, err := s.repo.GetUserByUID(ctx, targetUID)
	if err != nil {
		return "", err
	}

	count, err := s.repo.SoftDeleteUser(ctx, targetUID)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", repository.ErrUserNotFound
	}
	s.log.Info("deleted user", slog.String("useruid", targetUID), slog.String("username", target.Username))
	return target.Username, nil
}

// Logout подтверждает выход. Состояние отзыва токенов не ведется,
// операция требует лишь установленной личности.
func (s *UserService) Logout(actor *models.User) (string, error) {
	if _, err := authservice.RequireAuth(actor); err != nil {
		return "", err
	}
	return "successfully logged out", nil
}
