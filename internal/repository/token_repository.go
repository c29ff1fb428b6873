package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/C4st3ll4n/recipe-api/internal/model"
)

// TokenRepo persists opaque API tokens in the `auth_tokens` table. The
// table holds at most one row per user; the key is stored raw so that
// issuing a token for a user who already has one returns the identical
// credential.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Create inserts a token row.
func (r *TokenRepo) Create(ctx context.Context, t *model.AuthToken) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth_tokens (user_id, token) VALUES (?,?)",
		t.UserID, t.Key)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByUser returns the user's current token, if any.
func (r *TokenRepo) GetByUser(ctx context.Context, userID uint64) (*model.AuthToken, error) {
	return r.get(ctx, "user_id=?", userID)
}

// GetByKey resolves a presented credential to its token row.
func (r *TokenRepo) GetByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	return r.get(ctx, "token=?", key)
}

func (r *TokenRepo) get(ctx context.Context, where string, arg any) (*model.AuthToken, error) {
	var t model.AuthToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,created_at FROM auth_tokens WHERE "+where+" LIMIT 1",
		arg).Scan(&t.ID, &t.UserID, &t.Key, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// DeleteByUser invalidates the user's token.
func (r *TokenRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM auth_tokens WHERE user_id=?", userID)
	return err
}
