package repository

import (
	"context"
	"database/sql"

	"github.com/C4st3ll4n/recipe-api/internal/model"
)

// IngredientRepo provides MySQL-backed persistence for the
// `ingredients` table. Same owner-scoping rules as TagRepo.
type IngredientRepo struct{ DB *sql.DB }

func NewIngredientRepo(db *sql.DB) *IngredientRepo { return &IngredientRepo{DB: db} }

// Create inserts an ingredient row and populates its ID.
func (r *IngredientRepo) Create(ctx context.Context, i *model.Ingredient) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ingredients (user_id, name) VALUES (?,?)", i.UserID, i.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	i.ID = uint64(id)
	return nil
}

// ListByOwner returns the owner's ingredients ordered by name
// descending, optionally restricted to those attached to a recipe.
func (r *IngredientRepo) ListByOwner(ctx context.Context, ownerID uint64, assignedOnly bool) ([]*model.Ingredient, error) {
	q := "SELECT id, user_id, name FROM ingredients WHERE user_id = ? ORDER BY name DESC"
	if assignedOnly {
		q = `SELECT DISTINCT i.id, i.user_id, i.name FROM ingredients i
		     JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		     WHERE i.user_id = ? ORDER BY i.name DESC`
	}
	rows, err := r.DB.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Ingredient
	for rows.Next() {
		i := new(model.Ingredient)
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDsAndOwner resolves ids against the owner's ingredients.
func (r *IngredientRepo) GetByIDsAndOwner(ctx context.Context, ownerID uint64, ids []uint64) ([]*model.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := "SELECT id, user_id, name FROM ingredients WHERE user_id = ? AND id IN (" + placeholders(len(ids)) + ")"
	rows, err := r.DB.QueryContext(ctx, q, idArgs(ownerID, ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Ingredient
	for rows.Next() {
		i := new(model.Ingredient)
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
