// Package memory provides in-memory implementations of the repository
// store interfaces. They mirror the MySQL semantics — owner scoping,
// ordering, edge replacement — closely enough for handler and scenario
// tests to run without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/C4st3ll4n/recipe-api/internal/model"
	"github.com/C4st3ll4n/recipe-api/internal/repository"
)

// Store holds every table in one place so related stores can consult
// each other (the assigned-only filter needs the recipe edges).
type Store struct {
	mu sync.Mutex

	users       map[uint64]*model.User
	tokens      map[uint64]*model.AuthToken // keyed by token id
	tags        map[uint64]*model.Tag
	ingredients map[uint64]*model.Ingredient
	recipes     map[uint64]*model.Recipe

	nextID uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:       map[uint64]*model.User{},
		tokens:      map[uint64]*model.AuthToken{},
		tags:        map[uint64]*model.Tag{},
		ingredients: map[uint64]*model.Ingredient{},
		recipes:     map[uint64]*model.Recipe{},
	}
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

// Users returns the UserStore view of the store.
func (s *Store) Users() repository.UserStore { return (*userStore)(s) }

// Tokens returns the TokenStore view of the store.
func (s *Store) Tokens() repository.TokenStore { return (*tokenStore)(s) }

// Tags returns the TagStore view of the store.
func (s *Store) Tags() repository.TagStore { return (*tagStore)(s) }

// Ingredients returns the IngredientStore view of the store.
func (s *Store) Ingredients() repository.IngredientStore { return (*ingredientStore)(s) }

// Recipes returns the RecipeStore view of the store.
func (s *Store) Recipes() repository.RecipeStore { return (*recipeStore)(s) }

// ---- users ----

type userStore Store

func (s *userStore) Create(_ context.Context, u *model.User) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, existing := range st.users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = st.id()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	st.users[u.ID] = &cp
	return nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, u := range st.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *userStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	u, ok := st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) Update(_ context.Context, u *model.User) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	existing, ok := st.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = u.Name
	existing.PasswordHash = u.PasswordHash
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

// ---- tokens ----

type tokenStore Store

func (s *tokenStore) Create(_ context.Context, t *model.AuthToken) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	t.ID = st.id()
	t.CreatedAt = time.Now().UTC()
	cp := *t
	st.tokens[t.ID] = &cp
	return nil
}

func (s *tokenStore) GetByUser(_ context.Context, userID uint64) (*model.AuthToken, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, t := range st.tokens {
		if t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *tokenStore) GetByKey(_ context.Context, key string) (*model.AuthToken, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, t := range st.tokens {
		if t.Key == key {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *tokenStore) DeleteByUser(_ context.Context, userID uint64) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, t := range st.tokens {
		if t.UserID == userID {
			delete(st.tokens, id)
		}
	}
	return nil
}

// ---- tags ----

type tagStore Store

func (s *tagStore) Create(_ context.Context, t *model.Tag) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	t.ID = st.id()
	cp := *t
	st.tags[t.ID] = &cp
	return nil
}

func (s *tagStore) ListByOwner(_ context.Context, ownerID uint64, assignedOnly bool) ([]*model.Tag, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	assigned := map[uint64]bool{}
	if assignedOnly {
		for _, r := range st.recipes {
			for _, t := range r.Tags {
				assigned[t.ID] = true
			}
		}
	}
	var out []*model.Tag
	for _, t := range st.tags {
		if t.UserID != ownerID {
			continue
		}
		if assignedOnly && !assigned[t.ID] {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (s *tagStore) GetByIDsAndOwner(_ context.Context, ownerID uint64, ids []uint64) ([]*model.Tag, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []*model.Tag
	for _, id := range ids {
		if t, ok := st.tags[id]; ok && t.UserID == ownerID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- ingredients ----

type ingredientStore Store

func (s *ingredientStore) Create(_ context.Context, i *model.Ingredient) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	i.ID = st.id()
	cp := *i
	st.ingredients[i.ID] = &cp
	return nil
}

func (s *ingredientStore) ListByOwner(_ context.Context, ownerID uint64, assignedOnly bool) ([]*model.Ingredient, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	assigned := map[uint64]bool{}
	if assignedOnly {
		for _, r := range st.recipes {
			for _, i := range r.Ingredients {
				assigned[i.ID] = true
			}
		}
	}
	var out []*model.Ingredient
	for _, i := range st.ingredients {
		if i.UserID != ownerID {
			continue
		}
		if assignedOnly && !assigned[i.ID] {
			continue
		}
		cp := *i
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (s *ingredientStore) GetByIDsAndOwner(_ context.Context, ownerID uint64, ids []uint64) ([]*model.Ingredient, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []*model.Ingredient
	for _, id := range ids {
		if i, ok := st.ingredients[id]; ok && i.UserID == ownerID {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- recipes ----

type recipeStore Store

func cloneRecipe(r *model.Recipe) *model.Recipe {
	cp := *r
	cp.Tags = make([]*model.Tag, len(r.Tags))
	for i, t := range r.Tags {
		tc := *t
		cp.Tags[i] = &tc
	}
	cp.Ingredients = make([]*model.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ic := *ing
		cp.Ingredients[i] = &ic
	}
	return &cp
}

func (s *recipeStore) Create(_ context.Context, r *model.Recipe) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	r.ID = st.id()
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	if r.Tags == nil {
		r.Tags = []*model.Tag{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []*model.Ingredient{}
	}
	st.recipes[r.ID] = cloneRecipe(r)
	return nil
}

func (s *recipeStore) GetByIDAndOwner(_ context.Context, id, ownerID uint64) (*model.Recipe, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.recipes[id]
	if !ok || r.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneRecipe(r), nil
}

func (s *recipeStore) ListByOwner(_ context.Context, ownerID uint64, f repository.RecipeFilter) ([]*model.Recipe, error) {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []*model.Recipe
	for _, r := range st.recipes {
		if r.UserID != ownerID {
			continue
		}
		if len(f.TagIDs) > 0 && !referencesAny(r.TagIDs(), f.TagIDs) {
			continue
		}
		if len(f.IngredientIDs) > 0 && !referencesAny(r.IngredientIDs(), f.IngredientIDs) {
			continue
		}
		out = append(out, cloneRecipe(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func referencesAny(have, want []uint64) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (s *recipeStore) Update(_ context.Context, r *model.Recipe, replaceTags, replaceIngredients bool) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	existing, ok := st.recipes[r.ID]
	if !ok || existing.UserID != r.UserID {
		return repository.ErrNotFound
	}
	existing.Title = r.Title
	existing.TimeMinutes = r.TimeMinutes
	existing.Price = r.Price
	existing.Link = r.Link
	existing.UpdatedAt = time.Now().UTC()
	if replaceTags {
		existing.Tags = cloneRecipe(r).Tags
	}
	if replaceIngredients {
		existing.Ingredients = cloneRecipe(r).Ingredients
	}
	return nil
}

func (s *recipeStore) SetImagePath(_ context.Context, id, ownerID uint64, path string) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.recipes[id]
	if !ok || r.UserID != ownerID {
		return repository.ErrNotFound
	}
	r.ImagePath = path
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *recipeStore) DeleteByIDAndOwner(_ context.Context, id, ownerID uint64) error {
	st := (*Store)(s)
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.recipes[id]
	if !ok || r.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(st.recipes, id)
	return nil
}
