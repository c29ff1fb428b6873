package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/C4st3ll4n/recipe-api/internal/model"
)

// RecipeRepo provides MySQL-backed persistence for the recipe aggregate:
// the `recipes` table plus the recipe_tags and recipe_ingredients join
// tables. Writes that touch the row and its edges run in one
// transaction so the aggregate never ends up half-updated.
type RecipeRepo struct{ DB *sql.DB }

func NewRecipeRepo(db *sql.DB) *RecipeRepo { return &RecipeRepo{DB: db} }

// Create inserts the recipe row and its tag/ingredient edges. On
// success the ID and timestamp fields are populated.
func (r *RecipeRepo) Create(ctx context.Context, rec *model.Recipe) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO recipes (user_id, title, time_minutes, price_cents, link) VALUES (?,?,?,?,?)",
		rec.UserID, rec.Title, rec.TimeMinutes, int64(rec.Price), rec.Link)
	if err != nil {
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)

	if err = insertEdges(ctx, tx, "recipe_tags", "tag_id", rec.ID, rec.TagIDs()); err != nil {
		return err
	}
	if err = insertEdges(ctx, tx, "recipe_ingredients", "ingredient_id", rec.ID, rec.IngredientIDs()); err != nil {
		return err
	}

	// Follow-up SELECT to populate default timestamp columns.
	err = tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM recipes WHERE id=?", rec.ID).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	return err
}

// GetByIDAndOwner loads the full aggregate. ErrNotFound covers both a
// missing row and a row owned by a different user.
func (r *RecipeRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Recipe, error) {
	var rec model.Recipe
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, title, time_minutes, price_cents, link, image_path, created_at, updated_at
		 FROM recipes WHERE id = ? AND user_id = ?`,
		id, ownerID).Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.TimeMinutes, &rec.Price,
		&rec.Link, &rec.ImagePath, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.loadEdges(ctx, []*model.Recipe{&rec}); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByOwner returns the owner's recipes, newest first. The filter's
// id lists narrow the result: a recipe matches a dimension when it
// references ANY of the given ids, and both dimensions must match when
// both are present. DISTINCT collapses the join fan-out.
func (r *RecipeRepo) ListByOwner(ctx context.Context, ownerID uint64, f RecipeFilter) ([]*model.Recipe, error) {
	q := "SELECT DISTINCT r.id, r.user_id, r.title, r.time_minutes, r.price_cents, r.link, r.image_path, r.created_at, r.updated_at FROM recipes r"
	args := []any{}
	where := " WHERE r.user_id = ?"
	if len(f.TagIDs) > 0 {
		q += " JOIN recipe_tags rt ON rt.recipe_id = r.id"
		where += " AND rt.tag_id IN (" + placeholders(len(f.TagIDs)) + ")"
	}
	if len(f.IngredientIDs) > 0 {
		q += " JOIN recipe_ingredients ri ON ri.recipe_id = r.id"
		where += " AND ri.ingredient_id IN (" + placeholders(len(f.IngredientIDs)) + ")"
	}
	args = append(args, ownerID)
	for _, id := range f.TagIDs {
		args = append(args, id)
	}
	for _, id := range f.IngredientIDs {
		args = append(args, id)
	}
	q += where + " ORDER BY r.id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Recipe
	for rows.Next() {
		rec := new(model.Recipe)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.TimeMinutes, &rec.Price,
			&rec.Link, &rec.ImagePath, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadEdges(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes the scalar fields and, when requested, replaces the
// tag/ingredient edge sets with the sets currently on rec. Ownership is
// re-verified inside the transaction.
func (r *RecipeRepo) Update(ctx context.Context, rec *model.Recipe, replaceTags, replaceIngredients bool) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT user_id FROM recipes WHERE id = ?", rec.ID).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	if dbOwnerID != rec.UserID {
		err = ErrNotFound // do not leak existence of another user's recipe
		return err
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE recipes SET title=?, time_minutes=?, price_cents=?, link=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		rec.Title, rec.TimeMinutes, int64(rec.Price), rec.Link, rec.ID); err != nil {
		return err
	}

	if replaceTags {
		if _, err = tx.ExecContext(ctx, "DELETE FROM recipe_tags WHERE recipe_id=?", rec.ID); err != nil {
			return err
		}
		if err = insertEdges(ctx, tx, "recipe_tags", "tag_id", rec.ID, rec.TagIDs()); err != nil {
			return err
		}
	}
	if replaceIngredients {
		if _, err = tx.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id=?", rec.ID); err != nil {
			return err
		}
		if err = insertEdges(ctx, tx, "recipe_ingredients", "ingredient_id", rec.ID, rec.IngredientIDs()); err != nil {
			return err
		}
	}
	return nil
}

// SetImagePath records where the recipe's uploaded image is stored.
func (r *RecipeRepo) SetImagePath(ctx context.Context, id, ownerID uint64, path string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE recipes SET image_path=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND user_id=?",
		path, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByIDAndOwner removes the recipe together with its edges. The
// join rows cascade on the foreign key, but they are deleted explicitly
// so the behavior does not depend on schema options.
func (r *RecipeRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT user_id FROM recipes WHERE id = ?", id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		err = ErrNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM recipe_tags WHERE recipe_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id=?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM recipes WHERE id=?", id)
	return err
}

// insertEdges writes one join row per id for the given table/column.
func insertEdges(ctx context.Context, tx *sql.Tx, table, column string, recipeID uint64, ids []uint64) error {
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (recipe_id, "+column+") VALUES (?,?)", recipeID, id); err != nil {
			return err
		}
	}
	return nil
}

// loadEdges populates Tags and Ingredients for every recipe in one
// query per relation.
func (r *RecipeRepo) loadEdges(ctx context.Context, recipes []*model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.Recipe, len(recipes))
	ids := make([]uint64, 0, len(recipes))
	for _, rec := range recipes {
		rec.Tags = []*model.Tag{}
		rec.Ingredients = []*model.Ingredient{}
		byID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT rt.recipe_id, t.id, t.user_id, t.name FROM recipe_tags rt
		 JOIN tags t ON t.id = rt.tag_id
		 WHERE rt.recipe_id IN (`+placeholders(len(ids))+`) ORDER BY t.id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID uint64
		t := new(model.Tag)
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name); err != nil {
			return err
		}
		if rec, ok := byID[recipeID]; ok {
			rec.Tags = append(rec.Tags, t)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.QueryContext(ctx,
		`SELECT ri.recipe_id, i.id, i.user_id, i.name FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id IN (`+placeholders(len(ids))+`) ORDER BY i.id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID uint64
		i := new(model.Ingredient)
		if err := rows.Scan(&recipeID, &i.ID, &i.UserID, &i.Name); err != nil {
			return err
		}
		if rec, ok := byID[recipeID]; ok {
			rec.Ingredients = append(rec.Ingredients, i)
		}
	}
	return rows.Err()
}
