package router

import (
	"github.com/labstack/echo/v4"

	"github.com/C4st3ll4n/recipe-api/internal/handler"
)

// Handlers bundles everything RegisterRoutes needs to wire the API.
type Handlers struct {
	Users       *handler.UserHandler
	Tags        *handler.TagHandler
	Ingredients *handler.IngredientHandler
	Recipes     *handler.RecipeHandler
}

// RegisterRoutes maps every endpoint onto the Echo instance. Account
// creation and token issuance are open (but rate limited, since both
// accept credentials); everything else requires a token. Static routes
// like /v1/recipes/tags are registered alongside /v1/recipes/:id —
// Echo matches the static path first.
func RegisterRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc, limiter echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	users := e.Group("/v1/users")
	users.POST("", h.Users.Register, limiter)
	users.POST("/token", h.Users.Token, limiter)

	me := users.Group("/me", auth)
	me.GET("", h.Users.Me)
	me.PUT("", h.Users.UpdateMe)
	me.PATCH("", h.Users.UpdateMe)

	recipes := e.Group("/v1/recipes", auth)
	recipes.GET("/tags", h.Tags.List)
	recipes.POST("/tags", h.Tags.Create)
	recipes.GET("/ingredients", h.Ingredients.List)
	recipes.POST("/ingredients", h.Ingredients.Create)

	recipes.GET("", h.Recipes.List)
	recipes.POST("", h.Recipes.Create)
	recipes.GET("/:id", h.Recipes.Get)
	recipes.PUT("/:id", h.Recipes.Update)
	recipes.PATCH("/:id", h.Recipes.Update)
	recipes.DELETE("/:id", h.Recipes.Delete)
	recipes.POST("/:id/image", h.Recipes.UploadImage)
}

// Noop returns a pass-through middleware for slots that are
// intentionally empty, e.g. rate limiting disabled in tests.
func Noop() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
}
