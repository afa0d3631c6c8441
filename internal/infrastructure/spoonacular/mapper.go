package spoonacular

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cookme/web/internal/domain"
)

// searchItem is one element of the findByIngredients response. Pointer fields
// are required; their absence makes the whole response malformed.
type searchItem struct {
	ID                  *int64  `json:"id"`
	Title               *string `json:"title"`
	Image               string  `json:"image"`
	UsedIngredientCount *int    `json:"usedIngredientCount"`
}

// informationResponse is the subset of the recipe information response we read
type informationResponse struct {
	Instructions *string `json:"instructions"`
}

// decodeSearchResponse parses a findByIngredients body into recipes, keeping API order
func decodeSearchResponse(body []byte) ([]domain.Recipe, error) {
	var items []searchItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrMalformedResponse, err)
	}

	recipes := make([]domain.Recipe, 0, len(items))
	for i, item := range items {
		recipe, err := mapToRecipe(item)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", domain.ErrMalformedResponse, i, err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

// mapToRecipe converts a search item to our domain Recipe
func mapToRecipe(item searchItem) (domain.Recipe, error) {
	switch {
	case item.ID == nil:
		return domain.Recipe{}, fmt.Errorf("missing field %q", "id")
	case item.Title == nil:
		return domain.Recipe{}, fmt.Errorf("missing field %q", "title")
	case item.UsedIngredientCount == nil:
		return domain.Recipe{}, fmt.Errorf("missing field %q", "usedIngredientCount")
	case *item.UsedIngredientCount < 0:
		return domain.Recipe{}, fmt.Errorf("negative usedIngredientCount %d", *item.UsedIngredientCount)
	}

	return domain.Recipe{
		ID:                  *item.ID,
		Title:               *item.Title,
		Image:               item.Image,
		UsedIngredientCount: *item.UsedIngredientCount,
	}, nil
}

// decodeInstructions extracts the optional instructions text of a recipe
// information body. A missing or null field yields an empty string.
func decodeInstructions(body []byte) (string, error) {
	var info informationResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", domain.ErrMalformedResponse, err)
	}
	if info.Instructions == nil {
		return "", nil
	}
	return *info.Instructions, nil
}

// prettyJSON indents a JSON body for debug output, returning it as-is when it is not JSON
func prettyJSON(body []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return string(body)
	}
	return out.String()
}
