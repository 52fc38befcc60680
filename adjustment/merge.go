package adjustment

import "github.com/healthymeal/backend/recipe"

// Merge combines the model output with the original recipe into a new
// adjusted recipe row. Title, ingredients and steps always come from the
// output; tags, servings and calories fall back to the original when the
// model omitted them; preparation times always come from the original
// because the model has no basis to re-estimate them.
func Merge(original *recipe.Recipe, adjusted *AdjustedOutput) *recipe.Recipe {
	tags := adjusted.Tags
	if tags == nil {
		tags = original.Tags
	}
	servings := original.Servings
	if adjusted.Servings != nil {
		servings = *adjusted.Servings
	}
	calories := original.CaloriesPerServing
	if adjusted.CaloriesPerServing != nil {
		calories = adjusted.CaloriesPerServing
	}

	originalID := original.ID
	return &recipe.Recipe{
		UserID:             original.UserID,
		Title:              adjusted.Title,
		Ingredients:        adjusted.Ingredients,
		Steps:              adjusted.Steps,
		Tags:               tags,
		Servings:           servings,
		CaloriesPerServing: calories,
		PrepTimeMinutes:    original.PrepTimeMinutes,
		CookTimeMinutes:    original.CookTimeMinutes,
		TotalTimeMinutes:   original.TotalTimeMinutes,
		IsAIAdjusted:       true,
		OriginalRecipeID:   &originalID,
	}
}
