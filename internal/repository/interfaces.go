package repository

import (
	"context"

	"github.com/C4st3ll4n/recipe-api/internal/model"
)

// The store interfaces below are what handlers and middleware depend on.
// The MySQL implementations in this package satisfy them in production;
// the memory package provides equivalents for tests. Every method that
// reads or mutates owned rows takes the owner id explicitly — callers
// never rely on ambient identity state.

// UserStore persists user accounts.
type UserStore interface {
	// Create inserts the user and populates its ID. Returns
	// ErrEmailExists when the email is already registered.
	Create(ctx context.Context, u *model.User) error
	// GetByEmail fetches a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID fetches a user by id.
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	// Update persists name and password hash changes.
	Update(ctx context.Context, u *model.User) error
}

// TokenStore persists opaque API tokens, one per user.
type TokenStore interface {
	// Create inserts a token row and populates its ID.
	Create(ctx context.Context, t *model.AuthToken) error
	// GetByUser returns the user's current token, if any.
	GetByUser(ctx context.Context, userID uint64) (*model.AuthToken, error)
	// GetByKey resolves a presented credential to its token row.
	GetByKey(ctx context.Context, key string) (*model.AuthToken, error)
	// DeleteByUser invalidates the user's token.
	DeleteByUser(ctx context.Context, userID uint64) error
}

// TagStore persists user-scoped tags.
type TagStore interface {
	Create(ctx context.Context, t *model.Tag) error
	// ListByOwner returns the owner's tags ordered by name descending.
	// With assignedOnly, only tags referenced by at least one recipe are
	// returned, each at most once.
	ListByOwner(ctx context.Context, ownerID uint64, assignedOnly bool) ([]*model.Tag, error)
	// GetByIDsAndOwner resolves ids against the owner's tags. Missing or
	// foreign ids are simply absent from the result.
	GetByIDsAndOwner(ctx context.Context, ownerID uint64, ids []uint64) ([]*model.Tag, error)
}

// IngredientStore persists user-scoped ingredients. Same contract as TagStore.
type IngredientStore interface {
	Create(ctx context.Context, i *model.Ingredient) error
	ListByOwner(ctx context.Context, ownerID uint64, assignedOnly bool) ([]*model.Ingredient, error)
	GetByIDsAndOwner(ctx context.Context, ownerID uint64, ids []uint64) ([]*model.Ingredient, error)
}

// RecipeFilter narrows a recipe listing. Within each id list the
// semantics are OR (any match); when both lists are present they combine
// as AND on top of the mandatory owner scope.
type RecipeFilter struct {
	TagIDs        []uint64
	IngredientIDs []uint64
}

// RecipeStore persists the recipe aggregate: the row plus its
// many-to-many tag and ingredient edges.
type RecipeStore interface {
	// Create inserts the recipe and its edges, populating the ID.
	Create(ctx context.Context, r *model.Recipe) error
	// GetByIDAndOwner loads the full aggregate; ErrNotFound when the row
	// is missing or owned by someone else.
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Recipe, error)
	// ListByOwner returns the owner's recipes, newest first, with edges
	// loaded, optionally narrowed by the filter.
	ListByOwner(ctx context.Context, ownerID uint64, f RecipeFilter) ([]*model.Recipe, error)
	// Update writes the scalar fields and, when the corresponding flag is
	// set, replaces the tag/ingredient edge sets with r's current sets.
	Update(ctx context.Context, r *model.Recipe, replaceTags, replaceIngredients bool) error
	// SetImagePath records the stored image location for the recipe.
	SetImagePath(ctx context.Context, id, ownerID uint64, path string) error
	// DeleteByIDAndOwner removes the recipe and its edges.
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}
