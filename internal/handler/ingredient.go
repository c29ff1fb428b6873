package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/C4st3ll4n/recipe-api/internal/model"
	"github.com/C4st3ll4n/recipe-api/internal/repository"
	"github.com/C4st3ll4n/recipe-api/internal/service"
)

// IngredientHandler serves the ingredient listing and creation
// endpoints, owner-scoped like tags.
type IngredientHandler struct {
	Ingredients repository.IngredientStore
}

func NewIngredientHandler(ingredients repository.IngredientStore) *IngredientHandler {
	return &IngredientHandler{Ingredients: ingredients}
}

// List handles GET /v1/recipes/ingredients.
func (h *IngredientHandler) List(c echo.Context) error {
	uid, ok, err := requireUserID(c)
	if !ok {
		return err
	}
	assignedOnly := parseBoolParam(c.QueryParam("assigned_only"))
	items, err := h.Ingredients.ListByOwner(c.Request().Context(), uid, assignedOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Ingredient{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/recipes/ingredients.
func (h *IngredientHandler) Create(c echo.Context) error {
	uid, ok, err := requireUserID(c)
	if !ok {
		return err
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return fieldError(c, service.FieldErrors{"name": "name is required"})
	}

	ing := &model.Ingredient{UserID: uid, Name: name}
	if err := h.Ingredients.Create(c.Request().Context(), ing); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create ingredient"})
	}
	return c.JSON(http.StatusCreated, ing)
}
