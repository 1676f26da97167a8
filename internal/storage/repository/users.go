package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/account-service/internal/models"
)

const userColumns = `uid, username, email, password_hash, role, created_at, updated_at, deleted_at`

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Нарушение уникальности username или email возвращается как ErrUserExists:
// гонка, проскочившая предварительную проверку, даёт тот же вид ошибки.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUID возвращает живого пользователя по его UID.
// Записи с отметкой удаления не видны.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1 AND deleted_at IS NULL`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// GetUserByEmail возвращает живого пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1 AND deleted_at IS NULL`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUserByUIDAny возвращает пользователя по UID без фильтра мягкого удаления.
// Используется для прямого административного доступа к записи.
func (s *Storage) GetUserByUIDAny(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUIDAny"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// ExistsByEmailOrUsername сообщает, занят ли email или username живой
// или удалённой записью. Предварительная проверка перед регистрацией,
// финальное слово остаётся за ограничением уникальности.
func (s *Storage) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	const op = "storage.ExistsByEmailOrUsername"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM users WHERE email = $1 OR username = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListUsers возвращает живых пользователей, отсортированных по дате
// создания по убыванию, с пагинацией.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE deleted_at IS NULL
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var deletedAt sql.NullTime
		if err = rows.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash,
			&u.Role, &u.CreatedAt, &u.UpdatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if deletedAt.Valid {
			u.DeletedAt = &deletedAt.Time
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser обновляет непустые поля живого пользователя и возвращает
// количество затронутых строк. nil-аргумент оставляет колонку без изменений.
// Конфликт уникальности возвращается как ErrUserExists.
func (s *Storage) UpdateUser(ctx context.Context, userUID string, username, email, role, passwordHash *string) (int64, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET username = COALESCE($1, username),
			      email = COALESCE($2, email),
			      role = COALESCE($3, role),
			      password_hash = COALESCE($4, password_hash),
			      updated_at = now()
			  WHERE uid = $5 AND deleted_at IS NULL`
	res, err := s.DB.ExecContext(ctx, query, username, email, role, passwordHash, userUID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// SoftDeleteUser помечает живого пользователя удалённым и возвращает
// количество затронутых строк. Строка остается в базе.
func (s *Storage) SoftDeleteUser(ctx context.Context, userUID string) (int64, error) {
	const op = "storage.SoftDeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET deleted_at = now(),
			      updated_at = now()
			  WHERE uid = $1 AND deleted_at IS NULL`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// scanUser разбирает строку с колонками userColumns.
func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var deletedAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &u.CreatedAt, &u.UpdatedAt, &deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if deletedAt.Valid {
		u.DeletedAt = &deletedAt.Time
	}
	return u, nil
}

// isUniqueViolation распознает нарушение ограничения уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
