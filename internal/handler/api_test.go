package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/C4st3ll4n/recipe-api/internal/handler"
	"github.com/C4st3ll4n/recipe-api/internal/middleware"
	"github.com/C4st3ll4n/recipe-api/internal/repository/memory"
	"github.com/C4st3ll4n/recipe-api/internal/router"
	"github.com/C4st3ll4n/recipe-api/internal/service"
	"github.com/C4st3ll4n/recipe-api/internal/storage"
)

// api wires the full route table over in-memory stores so tests
// exercise the same middleware chain and JSON contracts as production.
type api struct {
	e     *echo.Echo
	store *memory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	st := memory.New()
	identity := &service.Identity{
		Users:      st.Users(),
		Tokens:     st.Tokens(),
		BcryptCost: bcrypt.MinCost,
	}
	images := storage.NewImageStore(t.TempDir())

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Users:       handler.NewUserHandler(identity, st.Users()),
		Tags:        handler.NewTagHandler(st.Tags()),
		Ingredients: handler.NewIngredientHandler(st.Ingredients()),
		Recipes:     handler.NewRecipeHandler(st.Recipes(), st.Tags(), st.Ingredients(), images, nil),
	}, middleware.TokenAuth(st.Tokens(), st.Users()), router.Noop())

	return &api{e: e, store: st}
}

// do performs a JSON request. An empty token leaves the Authorization
// header unset.
func (a *api) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// signup registers an account and returns its API token.
func (a *api) signup(t *testing.T, email, password string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/v1/users", "", map[string]string{
		"email": email, "password": password, "name": "Test User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/v1/users/token", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

// createTag makes a tag for the token's owner and returns its id.
func (a *api) createTag(t *testing.T, token, name string) uint64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/v1/recipes/tags", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID uint64 `json:"id"`
	}
	decode(t, rec, &resp)
	return resp.ID
}

func (a *api) createIngredient(t *testing.T, token, name string) uint64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/v1/recipes/ingredients", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID uint64 `json:"id"`
	}
	decode(t, rec, &resp)
	return resp.ID
}

// createRecipe posts a recipe with sane defaults merged with overrides
// and returns its id.
func (a *api) createRecipe(t *testing.T, token string, overrides map[string]any) uint64 {
	t.Helper()
	body := map[string]any{
		"title":        "Sample dish",
		"time_minutes": 10,
		"price":        5.50,
	}
	for k, v := range overrides {
		body[k] = v
	}
	rec := a.do(t, http.MethodPost, "/v1/recipes", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID uint64 `json:"id"`
	}
	decode(t, rec, &resp)
	return resp.ID
}

// uploadImage posts multipart data to the recipe image endpoint.
func (a *api) uploadImage(t *testing.T, token string, recipeID uint64, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, recipePath(recipeID)+"/image", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func recipePath(id uint64) string {
	return "/v1/recipes/" + strconv.FormatUint(id, 10)
}

// uintQuery renders ids as a comma-separated query value.
func uintQuery(ids ...uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ",")
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}
