package usecase

import (
	"context"
	"sort"

	"github.com/cookme/web/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var searchOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cookme_recipe_search_outcomes_total",
		Help: "Total number of ingredient searches by outcome",
	},
	[]string{"outcome"},
)

// RecipeServiceConfig holds configuration for the recipe service
type RecipeServiceConfig struct {
	FetchInstructions bool
}

// RecipeService finds recipes for a set of ingredients
type RecipeService struct {
	client            domain.RecipeClient
	fetchInstructions bool
}

// NewRecipeService creates a new recipe service with dependencies
func NewRecipeService(client domain.RecipeClient, config RecipeServiceConfig) *RecipeService {
	return &RecipeService{
		client:            client,
		fetchInstructions: config.FetchInstructions,
	}
}

// FindRecipes searches recipes for the ingredients and orders them by how many
// of the ingredients they use, most first. The result is never cached:
// usedIngredientCount only holds for this query.
func (s *RecipeService) FindRecipes(ctx context.Context, ingredients []string) domain.SearchResult {
	result := s.client.SearchByIngredients(ctx, ingredients, s.fetchInstructions)
	if result.Recipes == nil {
		result.Recipes = []domain.Recipe{}
	}
	if result.Outcome == "" {
		result.Outcome = domain.OutcomeFound
		if len(result.Recipes) == 0 {
			result.Outcome = domain.OutcomeNone
		}
	}

	searchOutcomesTotal.WithLabelValues(string(result.Outcome)).Inc()
	SortByUsedIngredients(result.Recipes)

	return result
}

// SortByUsedIngredients orders recipes by UsedIngredientCount descending.
// Ties keep their original order.
func SortByUsedIngredients(recipes []domain.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].UsedIngredientCount > recipes[j].UsedIngredientCount
	})
}
