// Package services содержит логику бизнес-уровня для аутентификации
// и построения контекста доступа запроса.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/account-service/internal/lib/password"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Ошибки аутентификации и авторизации.
var (
	// ErrInvalidCredentials неверная пара email-пароль. Одинакова для
	// неизвестного email и неверного пароля, чтобы не раскрывать,
	// существует ли учётная запись.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated операция требует аутентифицированного пользователя.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden роли пользователя недостаточно для операции.
	ErrForbidden = errors.New("insufficient permissions")
)

const bearerPrefix = "Bearer "

// UserRepository описывает контракт для чтения пользователей из базы данных.
type UserRepository interface {
	// GetUserByEmail возвращает живого пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUID возвращает живого пользователя по UID.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
}

// AuthService отвечает за вход пользователя, выпуск JWT и разрешение
// личности по заголовку Authorization.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет пароль пользователя по email и выпускает JWT.
//
// Неизвестный email и неверный пароль дают один и тот же
// ErrInvalidCredentials. Возвращаемый пользователь не содержит хэша.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.log.Info("login failed, email lookup", slog.String("op", op), sl.Err(err))
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		s.log.Info("login failed, password mismatch", slog.String("op", op))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.UID)
	if err != nil {
		return "", nil, err
	}
	return token, user.Sanitize(), nil
}

// ResolveIdentity строит личность запроса по значению заголовка Authorization.
//
// Любой сбой — отсутствие заголовка, не-Bearer схема, испорченный,
// неподписанный или истёкший токен, неизвестный либо удалённый
// пользователь — деградирует до анонимного nil и пишется в лог.
// Запрос при этом не отклоняется: в жёсткую ошибку анонимность
// превращают только guard-проверки.
func (s *AuthService) ResolveIdentity(ctx context.Context, authHeader string) *models.User {
	const op = "services.auth.ResolveIdentity"

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil
	}
	tokenStr := strings.TrimPrefix(authHeader, bearerPrefix)

	claims, err := s.jwtMaker.ParseToken(tokenStr)
	if err != nil {
		s.log.Info("invalid token", slog.String("op", op), sl.Err(err))
		return nil
	}

	user, err := s.users.GetUserByUID(ctx, claims.UserUID)
	if err != nil {
		s.log.Info("token user not found", slog.String("op", op),
			slog.String("useruid", claims.UserUID), sl.Err(err))
		return nil
	}
	return user.Sanitize()
}
