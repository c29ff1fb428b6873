package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/C4st3ll4n/recipe-api/internal/model"
	"github.com/C4st3ll4n/recipe-api/internal/repository"
	"github.com/C4st3ll4n/recipe-api/internal/service"
)

// UserHandler bundles dependencies for the account endpoints.
type UserHandler struct {
	Identity *service.Identity
	Users    repository.UserStore
}

func NewUserHandler(identity *service.Identity, users repository.UserStore) *UserHandler {
	return &UserHandler{Identity: identity, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
type tokenReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type profileReq struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}
type userResp struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserResp(u *model.User) userResp {
	return userResp{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Register handles POST /v1/users: create an account.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	u, err := h.Identity.CreateUser(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if handled, resp := maybeFieldError(c, err); handled {
			return resp
		}
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Token handles POST /v1/users/token: verify credentials and hand out
// the caller's opaque API token.
func (h *UserHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx := c.Request().Context()
	u, err := h.Identity.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	key, err := h.Identity.IssueToken(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": key})
}

// Me handles GET /v1/users/me: return the authenticated user's profile.
func (h *UserHandler) Me(c echo.Context) error {
	uid, ok, err := requireUserID(c)
	if !ok {
		return err
	}
	u, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// UpdateMe handles PATCH/PUT /v1/users/me: change name and/or password.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, ok, err := requireUserID(c)
	if !ok {
		return err
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	u, err = h.Identity.UpdateProfile(ctx, u, req.Name, req.Password)
	if err != nil {
		if handled, resp := maybeFieldError(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
