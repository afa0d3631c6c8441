package spoonacular

import (
	"testing"

	"github.com/cookme/web/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSearchResponse(t *testing.T) {
	t.Run("keeps API order and optional image", func(t *testing.T) {
		body := []byte(`[
			{"id": 3, "title": "Omelette", "image": "https://img/3.jpg", "usedIngredientCount": 1, "missedIngredientCount": 2},
			{"id": 1, "title": "Boiled Egg", "usedIngredientCount": 1}
		]`)

		recipes, err := decodeSearchResponse(body)

		require.NoError(t, err)
		assert.Equal(t, []domain.Recipe{
			{ID: 3, Title: "Omelette", Image: "https://img/3.jpg", UsedIngredientCount: 1},
			{ID: 1, Title: "Boiled Egg", UsedIngredientCount: 1},
		}, recipes)
	})

	t.Run("empty array yields no recipes", func(t *testing.T) {
		recipes, err := decodeSearchResponse([]byte(`[]`))

		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	t.Run("object instead of array is malformed", func(t *testing.T) {
		recipes, err := decodeSearchResponse([]byte(`{"status": "failure"}`))

		assert.Nil(t, recipes)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})
}

func TestMapToRecipe(t *testing.T) {
	id := int64(42)
	title := "Pancakes"
	count := 2
	negative := -1

	tests := []struct {
		name    string
		item    searchItem
		wantErr string
	}{
		{"missing id", searchItem{Title: &title, UsedIngredientCount: &count}, "id"},
		{"missing title", searchItem{ID: &id, UsedIngredientCount: &count}, "title"},
		{"missing usedIngredientCount", searchItem{ID: &id, Title: &title}, "usedIngredientCount"},
		{"negative usedIngredientCount", searchItem{ID: &id, Title: &title, UsedIngredientCount: &negative}, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapToRecipe(tt.item)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("maps all fields", func(t *testing.T) {
		recipe, err := mapToRecipe(searchItem{ID: &id, Title: &title, Image: "p.jpg", UsedIngredientCount: &count})

		require.NoError(t, err)
		assert.Equal(t, domain.Recipe{ID: 42, Title: "Pancakes", Image: "p.jpg", UsedIngredientCount: 2}, recipe)
		assert.Equal(t, "Pancakes", recipe.String())
	})

	t.Run("empty title is present", func(t *testing.T) {
		empty := ""
		recipe, err := mapToRecipe(searchItem{ID: &id, Title: &empty, UsedIngredientCount: &count})

		require.NoError(t, err)
		assert.Equal(t, "", recipe.Title)
	})
}

func TestDecodeInstructions(t *testing.T) {
	got, err := decodeInstructions([]byte(`{"instructions": "<ol><li>Mix</li></ol>"}`))
	require.NoError(t, err)
	assert.Equal(t, "<ol><li>Mix</li></ol>", got)

	got, err = decodeInstructions([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = decodeInstructions([]byte(`[`))
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", prettyJSON([]byte(`{"a":1}`)))
	assert.Equal(t, "not json", prettyJSON([]byte("not json")))
}
