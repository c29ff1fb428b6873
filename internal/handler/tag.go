package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/C4st3ll4n/recipe-api/internal/model"
	"github.com/C4st3ll4n/recipe-api/internal/repository"
	"github.com/C4st3ll4n/recipe-api/internal/service"
)

// TagHandler serves the tag listing and creation endpoints. Every
// operation is scoped to the authenticated owner.
type TagHandler struct {
	Tags repository.TagStore
}

func NewTagHandler(tags repository.TagStore) *TagHandler { return &TagHandler{Tags: tags} }

// List handles GET /v1/recipes/tags. With ?assigned_only=1 only tags
// referenced by at least one recipe are returned.
func (h *TagHandler) List(c echo.Context) error {
	uid, ok, err := requireUserID(c)
	if !ok {
		return err
	}
	assignedOnly := parseBoolParam(c.QueryParam("assigned_only"))
	items, err := h.Tags.ListByOwner(c.Request().Context(), uid, assignedOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Tag{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/recipes/tags. The owner is always the
// authenticated caller; nothing in the payload can change that.
func (h *TagHandler) Create(c echo.Context) error {
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

	tag := &model.Tag{UserID: uid, Name: name}
	if err := h.Tags.Create(c.Request().Context(), tag); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create tag"})
	}
	return c.JSON(http.StatusCreated, tag)
}
