package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/C4st3ll4n/recipe-api/internal/model"
)

// UserRepo provides MySQL-backed persistence for the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user row and populates its ID. The caller is
// expected to have normalized the email and hashed the password.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, is_active, is_staff, is_superuser) VALUES (?,?,?,?,?,?)",
		u.Email, u.Name, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.get(ctx, "email=?", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.get(ctx, "id=?", id)
}

func (r *UserRepo) get(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,password_hash,is_active,is_staff,is_superuser,created_at,updated_at FROM users WHERE "+where+" LIMIT 1",
		arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update persists profile changes (name and password hash). Email is
// immutable through this path.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		u.Name, u.PasswordHash, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op write;
		// verify existence so callers get a reliable ErrNotFound.
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}
