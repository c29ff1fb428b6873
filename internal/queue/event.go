// Package queue defines message payloads exchanged over the message broker.
package queue

// Recipe lifecycle actions carried by RecipeEvent.
const (
	ActionRecipeCreated       = "recipe.created"
	ActionRecipeDeleted       = "recipe.deleted"
	ActionRecipeImageAttached = "recipe.image_attached"
)

// RecipeEvent is published when a recipe is created, deleted or gets an
// image attached. It carries enough information for downstream
// consumers to log or trigger notifications without querying the
// primary database.
type RecipeEvent struct {
	Action     string `json:"action"`
	RecipeID   uint64 `json:"recipe_id"`
	UserID     uint64 `json:"user_id"`
	Title      string `json:"title"`
	OccurredAt string `json:"occurred_at"`
}
