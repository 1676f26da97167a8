package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена. Для вызывающего кода любая из них означает
// "личность не установлена", но вид ошибки пишется в лог.
var (
	// ErrTokenMalformed токен не разбирается как JWT.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenSignatureInvalid подпись не совпадает с секретным ключом.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	// ErrTokenExpired срок жизни токена истёк.
	ErrTokenExpired = errors.New("token is expired")
)

// GenerateToken создает JWT токен с идентификатором пользователя,
// подписывая его секретным ключом. Время жизни определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(userUID string) (string, error) {
	claims := CustomClaims{
		UserUID: userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и срок жизни,
// возвращает CustomClaims с данными, если токен корректен.
//
// Вид ошибки различим через errors.Is: ErrTokenMalformed,
// ErrTokenSignatureInvalid или ErrTokenExpired.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
	}
	return claims, nil
}

// classify сводит ошибки библиотеки к трем видам, остальные отдает как есть.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return err
	}
}
