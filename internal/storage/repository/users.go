package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/storage"
)

const userColumns = `id, username, email, hashed_password, is_active, created_at`

// Users репозиторий таблицы users.
type Users struct {
	db storage.DBTX
}

// NewUsers создаёт репозиторий пользователей поверх db.
func NewUsers(db storage.DBTX) *Users {
	return &Users{db: db}
}

// GetByID возвращает пользователя по id или nil, если записи нет.
func (r *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "repository.Users.GetByID"
	return r.getOne(ctx, op, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByIDForUpdate как GetByID, но блокирует строку до конца транзакции.
func (r *Users) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	const op = "repository.Users.GetByIDForUpdate"
	return r.getOne(ctx, op, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

// GetByUsername возвращает пользователя по username или nil.
func (r *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "repository.Users.GetByUsername"
	return r.getOne(ctx, op, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail возвращает пользователя по email или nil.
func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.Users.GetByEmail"
	return r.getOne(ctx, op, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *Users) getOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// List возвращает не более limit пользователей, пропустив первые skip, в порядке id.
func (r *Users) List(ctx context.Context, skip, limit int) ([]*models.User, error) {
	const op = "repository.Users.List"

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Create вставляет пользователя и возвращает запись с присвоенными id и created_at.
func (r *Users) Create(ctx context.Context, u models.User) (*models.User, error) {
	const op = "repository.Users.Create"

	query := `INSERT INTO users (username, email, hashed_password, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.HashedPassword, u.IsActive))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Update перезаписывает изменяемые поля пользователя по u.ID.
// Возвращает nil, если записи с таким id нет.
func (r *Users) Update(ctx context.Context, u models.User) (*models.User, error) {
	const op = "repository.Users.Update"

	query := `UPDATE users
			  SET username = $1, email = $2, hashed_password = $3, is_active = $4
			  WHERE id = $5
			  RETURNING ` + userColumns
	updated, err := scanUser(r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.HashedPassword, u.IsActive, u.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete удаляет пользователя по id и возвращает количество удалённых строк.
func (r *Users) Delete(ctx context.Context, id int64) (int64, error) {
	const op = "repository.Users.Delete"

	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
