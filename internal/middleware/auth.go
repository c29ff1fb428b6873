package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/C4st3ll4n/recipe-api/internal/repository"
)

// TokenAuth returns an Echo middleware that validates an opaque API
// token from the Authorization header (scheme "Token", e.g.
// "Authorization: Token 3f2a...") and injects the authenticated user's
// id into the request context. Handlers read it back via UserID(c) and
// pass it explicitly into every store call; nothing downstream consults
// ambient state.
func TokenAuth(tokens repository.TokenStore, users repository.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Token ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
			}
			key := strings.TrimSpace(strings.TrimPrefix(auth, "Token "))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
			}

			ctx := c.Request().Context()
			tok, err := tokens.GetByKey(ctx, key)
			if err != nil {
				// Unknown and revoked tokens look identical to the client.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			user, err := users.GetByID(ctx, tok.UserID)
			if err != nil || !user.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", user.ID)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user's id placed into the context
// by TokenAuth. The boolean is false when the request did not pass
// through the middleware.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get("user_id").(uint64)
	return id, ok
}
