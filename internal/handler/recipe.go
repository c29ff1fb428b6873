package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/C4st3ll4n/recipe-api/internal/model"
	"github.com/C4st3ll4n/recipe-api/internal/queue"
	"github.com/C4st3ll4n/recipe-api/internal/repository"
	"github.com/C4st3ll4n/recipe-api/internal/service"
	"github.com/C4st3ll4n/recipe-api/internal/storage"
)

// maxImageBytes caps uploaded image size.
const maxImageBytes = 10 << 20

// RecipeHandler serves the recipe aggregate endpoints: CRUD, filtered
// listing and image upload. Tag/ingredient attachment resolves ids
// against the caller's own rows only, so another user's ids cannot be
// attached by guessing.
type RecipeHandler struct {
	Recipes     repository.RecipeStore
	Tags        repository.TagStore
	Ingredients repository.IngredientStore
	Images      *storage.ImageStore
	Events      queue.EventPublisher // optional; nil disables eventing
}

func NewRecipeHandler(recipes repository.RecipeStore, tags repository.TagStore, ingredients repository.IngredientStore, images *storage.ImageStore, events queue.EventPublisher) *RecipeHandler {
	if recipes == nil || tags == nil || ingredients == nil || images == nil {
		panic("nil dependency passed to NewRecipeHandler")
	}
	return &RecipeHandler{Recipes: recipes, Tags: tags, Ingredients: ingredients, Images: images, Events: events}
}

// ----- DTOs -----

// recipeReq uses pointers so partial updates can tell an omitted field
// from a zero value. There is deliberately no owner field to bind.
type recipeReq struct {
	Title       *string      `json:"title"`
	TimeMinutes *int         `json:"time_minutes"`
	Price       *json.Number `json:"price"`
	Link        *string      `json:"link"`
	Tags        *[]uint64    `json:"tags"`
	Ingredients *[]uint64    `json:"ingredients"`
}

type recipeResp struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes uint                `json:"time_minutes"`
	Price       model.Price         `json:"price"`
	Link        string              `json:"link,omitempty"`
	Image       string              `json:"image,omitempty"`
	Tags        []*model.Tag        `json:"tags"`
	Ingredients []*model.Ingredient `json:"ingredients"`
}

func toRecipeResp(r *model.Recipe) recipeResp {
	resp := recipeResp{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        r.Tags,
		Ingredients: r.Ingredients,
	}
	if r.ImagePath != "" {
		resp.Image = "/media/" + strings.ReplaceAll(r.ImagePath, "\\", "/")
	}
	if resp.Tags == nil {
		resp.Tags = []*model.Tag{}
	}
	if resp.Ingredients == nil {
		resp.Ingredients = []*model.Ingredient{}
	}
	return resp
}

// List handles GET /v1/recipes with optional ?tags= and ?ingredients=
// comma-separated id filters. Within one filter any listed id matches;
// both filters together must each match.
func (h *RecipeHandler) List(c echo.Context) error {
	uid, ok, err := requireUserID(c)
	if !ok {
		return err
	}
	var f repository.RecipeFilter
	if f.TagIDs, err = parseIDList(c.QueryParam("tags")); err != nil {
		return fieldError(c, service.FieldErrors{"tags": "invalid id list"})
	}
	if f.IngredientIDs, err = parseIDList(c.QueryParam("ingredients")); err != nil {
		return fieldError(c, service.FieldErrors{"ingredients": "invalid id list"})
	}

	items, err := h.Recipes.ListByOwner(c.Request().Context(), uid, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	resp := make([]recipeResp, 0, len(items))
	for _, r := range items {
		resp = append(resp, toRecipeResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": resp})
}

// Create handles POST /v1/recipes.
func (h *RecipeHandler) Create(c echo.Context) error {
	uid, ok, err := requireUserID(c)
	if !ok {
		return err
	}
	var req recipeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	rec := &model.Recipe{UserID: uid}
	fields := applyScalars(rec, &req, false)
	ctx := c.Request().Context()
	if req.Tags != nil {
		rec.Tags, err = h.resolveTags(ctx, uid, *req.Tags, fields)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	if req.Ingredients != nil {
		rec.Ingredients, err = h.resolveIngredients(ctx, uid, *req.Ingredients, fields)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	if len(fields) > 0 {
		return fieldError(c, fields)
	}

	if err := h.Recipes.Create(ctx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create recipe"})
	}
	h.publish(c, queue.ActionRecipeCreated, rec)
	return c.JSON(http.StatusCreated, toRecipeResp(rec))
}

// Get handles GET /v1/recipes/:id.
func (h *RecipeHandler) Get(c echo.Context) error {
	_, rec, ok, err := h.fetch(c)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, toRecipeResp(rec))
}

// Update handles PUT and PATCH /v1/recipes/:id. PUT requires every
// mandatory field and clears any many-to-many set that is omitted;
// PATCH touches only the supplied fields, with a supplied list fully
// replacing the previous set.
func (h *RecipeHandler) Update(c echo.Context) error {
	uid, rec, ok, ferr := h.fetch(c)
	if !ok {
		return ferr
	}
	var req recipeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	partial := c.Request().Method == http.MethodPatch

	fields := applyScalars(rec, &req, partial)

	ctx := c.Request().Context()
	replaceTags := req.Tags != nil || !partial
	replaceIngredients := req.Ingredients != nil || !partial
	var err error
	if req.Tags != nil {
		rec.Tags, err = h.resolveTags(ctx, uid, *req.Tags, fields)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	} else if !partial {
		rec.Tags = nil // full update with no tag list clears the set
	}
	if req.Ingredients != nil {
		rec.Ingredients, err = h.resolveIngredients(ctx, uid, *req.Ingredients, fields)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	} else if !partial {
		rec.Ingredients = nil
	}
	if len(fields) > 0 {
		return fieldError(c, fields)
	}

	if err := h.Recipes.Update(ctx, rec, replaceTags, replaceIngredients); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Recipes.GetByIDAndOwner(ctx, rec.ID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toRecipeResp(updated))
}

// Delete handles DELETE /v1/recipes/:id. The stored image file is
// removed along with the row so no orphaned files accumulate.
func (h *RecipeHandler) Delete(c echo.Context) error {
	uid, rec, ok, ferr := h.fetch(c)
	if !ok {
		return ferr
	}
	ctx := c.Request().Context()
	if err := h.Recipes.DeleteByIDAndOwner(ctx, rec.ID, uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if err := h.Images.Remove(rec.ImagePath); err != nil {
		c.Logger().Warnf("remove recipe image %s: %v", rec.ImagePath, err)
	}
	h.publish(c, queue.ActionRecipeDeleted, rec)
	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /v1/recipes/:id/image with a multipart
// "image" part. Invalid bytes leave the prior image untouched.
func (h *RecipeHandler) UploadImage(c echo.Context) error {
	uid, rec, ok, ferr := h.fetch(c)
	if !ok {
		return ferr
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return fieldError(c, service.FieldErrors{"image": "image file is required"})
	}
	if fh.Size > maxImageBytes {
		return fieldError(c, service.FieldErrors{"image": "image too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}

	rel, err := h.Images.SaveRecipeImage(data, fh.Filename)
	if err != nil {
		if err == storage.ErrNotImage {
			return fieldError(c, service.FieldErrors{"image": "upload a valid image"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
	}

	ctx := c.Request().Context()
	if err := h.Recipes.SetImagePath(ctx, rec.ID, uid, rel); err != nil {
		_ = h.Images.Remove(rel)
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
	}
	// Replace semantics: drop the previous file only after the new one
	// is fully recorded.
	if rec.ImagePath != "" && rec.ImagePath != rel {
		if err := h.Images.Remove(rec.ImagePath); err != nil {
			c.Logger().Warnf("remove old recipe image %s: %v", rec.ImagePath, err)
		}
	}
	rec.ImagePath = rel
	h.publish(c, queue.ActionRecipeImageAttached, rec)
	return c.JSON(http.StatusOK, toRecipeResp(rec))
}

// fetch parses :id and loads the caller's recipe. Cross-owner and
// nonexistent ids are indistinguishable 404s. When ok is false the
// error response has already been written and the handler must return
// err unchanged.
func (h *RecipeHandler) fetch(c echo.Context) (uid uint64, rec *model.Recipe, ok bool, err error) {
	uid, ok, err = requireUserID(c)
	if !ok {
		return 0, nil, false, err
	}
	id, perr := strconv.ParseUint(c.Param("id"), 10, 64)
	if perr != nil {
		return 0, nil, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rec, gerr := h.Recipes.GetByIDAndOwner(c.Request().Context(), id, uid)
	if gerr != nil {
		if gerr == repository.ErrNotFound {
			return 0, nil, false, c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
		}
		return 0, nil, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return uid, rec, true, nil
}

// applyScalars validates and copies the scalar fields of req onto rec.
// With partial=false every mandatory field must be present. Collected
// problems are returned as field messages.
func applyScalars(rec *model.Recipe, req *recipeReq, partial bool) service.FieldErrors {
	fields := service.FieldErrors{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			fields["title"] = "title is required"
		} else {
			rec.Title = title
		}
	} else if !partial {
		fields["title"] = "title is required"
	}

	if req.TimeMinutes != nil {
		if *req.TimeMinutes < 0 {
			fields["time_minutes"] = "must be zero or greater"
		} else {
			rec.TimeMinutes = uint(*req.TimeMinutes)
		}
	} else if !partial {
		fields["time_minutes"] = "time_minutes is required"
	}

	if req.Price != nil {
		price, err := model.ParsePrice(req.Price.String())
		if err != nil {
			fields["price"] = "a valid non-negative price with at most 2 decimals is required"
		} else {
			rec.Price = price
		}
	} else if !partial {
		fields["price"] = "price is required"
	}

	if req.Link != nil {
		rec.Link = strings.TrimSpace(*req.Link)
	} else if !partial {
		rec.Link = ""
	}

	return fields
}

// resolveTags maps requested tag ids to the owner's tags. Any id that
// is missing or owned by someone else fails validation.
func (h *RecipeHandler) resolveTags(ctx context.Context, uid uint64, ids []uint64, fields service.FieldErrors) ([]*model.Tag, error) {
	ids = dedupe(ids)
	tags, err := h.Tags.GetByIDsAndOwner(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		fields["tags"] = "one or more tag ids are invalid"
	}
	return tags, nil
}

// resolveIngredients is resolveTags for ingredients.
func (h *RecipeHandler) resolveIngredients(ctx context.Context, uid uint64, ids []uint64, fields service.FieldErrors) ([]*model.Ingredient, error) {
	ids = dedupe(ids)
	ingredients, err := h.Ingredients.GetByIDsAndOwner(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	if len(ingredients) != len(ids) {
		fields["ingredients"] = "one or more ingredient ids are invalid"
	}
	return ingredients, nil
}

// publish emits a recipe lifecycle event, best-effort.
func (h *RecipeHandler) publish(c echo.Context, action string, rec *model.Recipe) {
	if h.Events == nil {
		return
	}
	ev := queue.RecipeEvent{
		Action:     action,
		RecipeID:   rec.ID,
		UserID:     rec.UserID,
		Title:      rec.Title,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	_ = h.Events.Publish(c.Request().Context(), ev)
}
