// Package repository реализует хранилище данных на основе PostgreSQL
// для управления учётными записями пользователей. Предоставляет методы
// создания, чтения, обновления и мягкого удаления записей.
//
// Фильтр мягкого удаления (deleted_at IS NULL) задаётся явным предикатом
// в каждом запросе, который должен видеть только живые записи, и явно
// опускается в GetUserByUIDAny.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. База остается единственным арбитром
// уникальности, поэтому нарушение ограничения и результат предварительной
// проверки сводятся к одному и тому же ErrUserExists.
var (
	// ErrUserNotFound запись не найдена или помечена удалённой.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists пользователь с таким username или email уже есть.
	ErrUserExists = errors.New("user already exists")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает соединение с базой данных. Вызывается при остановке приложения.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
