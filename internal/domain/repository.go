package domain

import "context"

// RecipeClient defines the interface for interacting with the recipe search API
type RecipeClient interface {
	SearchByIngredients(ctx context.Context, ingredients []string, fetchInstructions bool) SearchResult
	FetchInstructions(ctx context.Context, recipeID int64) string
}
