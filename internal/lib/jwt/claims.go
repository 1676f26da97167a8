// Package jwt реализует выпуск и проверку JWT токенов сервиса аккаунтов.
//
// Maker определяет интерфейс для создания и проверки токенов, несущих
// идентификатор пользователя. MakerImpl — конкретная реализация с подписью
// HS256, секретным ключом и сроком жизни токена.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"useruid"` // Идентификатор пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создает токен, привязанный к идентификатору пользователя.
	GenerateToken(userUID string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
