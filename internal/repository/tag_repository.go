package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/C4st3ll4n/recipe-api/internal/model"
)

// TagRepo provides MySQL-backed persistence for the `tags` table. Every
// query is scoped by owner before any other condition.
type TagRepo struct{ DB *sql.DB }

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{DB: db} }

// Create inserts a tag row and populates its ID. The owner comes from
// the model, which handlers fill from the authenticated identity.
func (r *TagRepo) Create(ctx context.Context, t *model.Tag) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tags (user_id, name) VALUES (?,?)", t.UserID, t.Name)
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

// ListByOwner returns the owner's tags ordered by name descending. With
// assignedOnly, only tags attached to at least one recipe are returned;
// DISTINCT keeps each tag to a single row even when several recipes
// reference it.
func (r *TagRepo) ListByOwner(ctx context.Context, ownerID uint64, assignedOnly bool) ([]*model.Tag, error) {
	q := "SELECT id, user_id, name FROM tags WHERE user_id = ? ORDER BY name DESC"
	if assignedOnly {
		q = `SELECT DISTINCT t.id, t.user_id, t.name FROM tags t
		     JOIN recipe_tags rt ON rt.tag_id = t.id
		     WHERE t.user_id = ? ORDER BY t.name DESC`
	}
	rows, err := r.DB.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Tag
	for rows.Next() {
		t := new(model.Tag)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDsAndOwner resolves ids against the owner's tags. Ids that do
// not exist or belong to another user are absent from the result.
func (r *TagRepo) GetByIDsAndOwner(ctx context.Context, ownerID uint64, ids []uint64) ([]*model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := "SELECT id, user_id, name FROM tags WHERE user_id = ? AND id IN (" + placeholders(len(ids)) + ")"
	rows, err := r.DB.QueryContext(ctx, q, idArgs(ownerID, ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Tag
	for rows.Next() {
		t := new(model.Tag)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// placeholders builds a "?,?,?" list for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// idArgs prefixes the owner id to a list of row ids for QueryContext.
func idArgs(ownerID uint64, ids []uint64) []any {
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}
