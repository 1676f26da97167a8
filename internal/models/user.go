// Package models содержит доменную модель пользователя сервиса аккаунтов:
// учётные данные, хэш пароля, роль и отметку мягкого удаления.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Набор закрытый, значения хранятся в базе как есть.
const (
	// RoleAdmin — полный доступ, включая удаление чужих аккаунтов.
	RoleAdmin = "ADMIN"
	// RoleUser — обычный пользователь, роль по умолчанию.
	RoleUser = "USER"
	// RoleManager — менеджер, имеет доступ к списку пользователей.
	RoleManager = "MANAGER"
)

// DefaultRole роль, назначаемая при регистрации, если роль не указана.
const DefaultRole = RoleUser

// ParseRole проверяет, что строка является одной из допустимых ролей.
// Пустая строка трактуется как роль по умолчанию.
func ParseRole(role string) (string, bool) {
	if role == "" {
		return DefaultRole, true
	}
	switch role {
	case RoleAdmin, RoleUser, RoleManager:
		return role, true
	default:
		return "", false
	}
}

// User представляет зарегистрированного пользователя сервиса.
type User struct {
	UID          string     `json:"uid"`                  // Уникальный идентификатор пользователя
	Username     string     `json:"username"`             // Имя пользователя (уникальное)
	Email        string     `json:"email"`                // Электронная почта (уникальная)
	PasswordHash string     `json:"-"`                    // Хэш пароля, наружу не отдается
	Role         string     `json:"role"`                 // Роль пользователя: ADMIN, USER или MANAGER
	CreatedAt    time.Time  `json:"created_at"`           // Дата создания записи
	UpdatedAt    time.Time  `json:"updated_at"`           // Дата последнего обновления
	DeletedAt    *time.Time `json:"deleted_at,omitempty"` // Отметка мягкого удаления, nil для живых записей
}

// Sanitize возвращает копию пользователя без хэша пароля.
// Используется везде, где запись уходит за пределы сервиса.
func (u *User) Sanitize() *User {
	if u == nil {
		return nil
	}
	clean := *u
	clean.PasswordHash = ""
	return &clean
}

// IsDeleted сообщает, помечена ли запись как удалённая.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// UpdateUserData описывает частичное обновление пользователя.
// nil-поле означает "не менять".
type UpdateUserData struct {
	Username *string // Новое имя пользователя
	Email    *string // Новая почта
	Role     *string // Новая роль
	Password *string // Новый пароль в открытом виде, хэшируется сервисом
}
