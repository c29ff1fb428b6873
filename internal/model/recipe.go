package model

import "time"

// Tag is a user-scoped label that can be attached to any number of the
// owner's recipes. Names are free-form; duplicates per user are allowed.
type Tag struct {
	ID     uint64 `json:"id"`      // tags.id
	UserID uint64 `json:"-"`       // tags.user_id (never serialized)
	Name   string `json:"name"`    // tags.name
}

// Ingredient is a user-scoped ingredient that recipes reference through
// a many-to-many relation. Same shape and rules as Tag.
type Ingredient struct {
	ID     uint64 `json:"id"`   // ingredients.id
	UserID uint64 `json:"-"`    // ingredients.user_id (never serialized)
	Name   string `json:"name"` // ingredients.name
}

// Recipe is the composite entity: the row itself plus its tag and
// ingredient edges and an optional stored image. Create and update
// treat the whole aggregate as one consistency boundary.
//
// Link and ImagePath are optional; an empty ImagePath means no image
// has been attached yet. Tags and Ingredients are always fully loaded
// by the repository layer so handlers can serialize the aggregate in
// one pass.
type Recipe struct {
	ID          uint64        // recipes.id
	UserID      uint64        // recipes.user_id
	Title       string        // recipes.title
	TimeMinutes uint          // recipes.time_minutes
	Price       Price         // recipes.price_cents
	Link        string        // recipes.link (optional)
	ImagePath   string        // recipes.image_path (optional, media-relative)
	Tags        []*Tag        // via recipe_tags
	Ingredients []*Ingredient // via recipe_ingredients
	CreatedAt   time.Time     // recipes.created_at
	UpdatedAt   time.Time     // recipes.updated_at
}

// TagIDs returns the ids of the recipe's attached tags in order.
func (r *Recipe) TagIDs() []uint64 {
	ids := make([]uint64, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IngredientIDs returns the ids of the recipe's attached ingredients in order.
func (r *Recipe) IngredientIDs() []uint64 {
	ids := make([]uint64, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}
