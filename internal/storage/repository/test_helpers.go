package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его UID
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, passwordHash, role string) string {
	t.Helper()

	userUID := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		userUID, username, email, passwordHash, role)
	require.NoError(t, err)
	return userUID
}

// CreateDeletedUser создает пользователя уже помеченного удалённым
func (f *TestDataFactory) CreateDeletedUser(t *testing.T, username, email, passwordHash, role string) string {
	t.Helper()

	userUID := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role, deleted_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		userUID, username, email, passwordHash, role)
	require.NoError(t, err)
	return userUID
}

// CreateUserAt создает пользователя с заданной датой создания,
// чтобы проверять порядок сортировки списка
func (f *TestDataFactory) CreateUserAt(t *testing.T, username, email string, createdAt time.Time) string {
	t.Helper()

	userUID := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, 'hashedpassword', 'USER', $4)`,
		userUID, username, email, createdAt)
	require.NoError(t, err)
	return userUID
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyUserRowExists проверяет, что строка пользователя есть в базе,
// независимо от отметки удаления
func (v *TestVerification) VerifyUserRowExists(t *testing.T, userUID string) {
	t.Helper()

	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE uid = $1", userUID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// VerifyUserDeletedAt проверяет состояние отметки удаления
func (v *TestVerification) VerifyUserDeletedAt(t *testing.T, userUID string, wantDeleted bool) {
	t.Helper()

	var deleted bool
	err := v.storage.DB.QueryRow("SELECT deleted_at IS NOT NULL FROM users WHERE uid = $1", userUID).Scan(&deleted)
	require.NoError(t, err)
	require.Equal(t, wantDeleted, deleted)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS users CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            username VARCHAR(30) NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('ADMIN', 'USER', 'MANAGER')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            deleted_at TIMESTAMPTZ
        );

        CREATE INDEX idx_users_created_at ON users(created_at DESC);
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
