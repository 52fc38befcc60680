package adjustment

import (
	"testing"

	"github.com/healthymeal/backend/recipe"
	"github.com/healthymeal/backend/util"
)

func originalRecipe() *recipe.Recipe {
	r := &recipe.Recipe{
		UserID:             "user-1",
		Title:              "Original Soup",
		Ingredients:        []recipe.Ingredient{{Text: "cream", Unit: "ml", Amount: util.Ptr(200.0)}},
		Steps:              []string{"cook"},
		Tags:               recipe.Tags{"cuisine": "french"},
		Servings:           4,
		CaloriesPerServing: util.Ptr(400),
		PrepTimeMinutes:    util.Ptr(15),
		CookTimeMinutes:    util.Ptr(30),
		TotalTimeMinutes:   util.Ptr(45),
	}
	r.ID = "orig-1"
	return r
}

func TestMergeReplacesCoreFields(t *testing.T) {
	adjusted := Merge(originalRecipe(), &AdjustedOutput{
		Title:              "Vegan Soup",
		Ingredients:        []recipe.Ingredient{{Text: "oat cream", Unit: "ml", Amount: util.Ptr(200.0)}},
		Steps:              []string{"cook differently"},
		Servings:           util.Ptr(2),
		CaloriesPerServing: util.Ptr(250),
		Tags:               recipe.Tags{"diet": "vegan"},
	})

	if adjusted.Title != "Vegan Soup" {
		t.Errorf("title not replaced: %q", adjusted.Title)
	}
	if adjusted.Ingredients[0].Text != "oat cream" {
		t.Errorf("ingredients not replaced: %+v", adjusted.Ingredients)
	}
	if adjusted.Servings != 2 {
		t.Errorf("servings not taken from output: %d", adjusted.Servings)
	}
	if *adjusted.CaloriesPerServing != 250 {
		t.Errorf("calories not taken from output: %d", *adjusted.CaloriesPerServing)
	}
	if adjusted.Tags["diet"] != "vegan" {
		t.Errorf("tags not taken from output: %v", adjusted.Tags)
	}
}

func TestMergeFallbacks(t *testing.T) {
	adjusted := Merge(originalRecipe(), &AdjustedOutput{
		Title:       "Vegan Soup",
		Ingredients: []recipe.Ingredient{{Text: "oat cream"}},
		Steps:       []string{"cook"},
	})

	if adjusted.Servings != 4 {
		t.Errorf("servings should fall back to original, got %d", adjusted.Servings)
	}
	if adjusted.CaloriesPerServing == nil || *adjusted.CaloriesPerServing != 400 {
		t.Errorf("calories should fall back to original, got %v", adjusted.CaloriesPerServing)
	}
	if adjusted.Tags["cuisine"] != "french" {
		t.Errorf("tags should fall back to original, got %v", adjusted.Tags)
	}
}

func TestMergeTimesAlwaysFromOriginal(t *testing.T) {
	adjusted := Merge(originalRecipe(), &AdjustedOutput{
		Title:       "Quick Soup",
		Ingredients: []recipe.Ingredient{{Text: "water"}},
		Steps:       []string{"boil"},
	})

	if adjusted.PrepTimeMinutes == nil || *adjusted.PrepTimeMinutes != 15 {
		t.Errorf("prep time must come from original, got %v", adjusted.PrepTimeMinutes)
	}
	if adjusted.CookTimeMinutes == nil || *adjusted.CookTimeMinutes != 30 {
		t.Errorf("cook time must come from original, got %v", adjusted.CookTimeMinutes)
	}
	if adjusted.TotalTimeMinutes == nil || *adjusted.TotalTimeMinutes != 45 {
		t.Errorf("total time must come from original, got %v", adjusted.TotalTimeMinutes)
	}
}

func TestMergeLineage(t *testing.T) {
	adjusted := Merge(originalRecipe(), &AdjustedOutput{
		Title:       "Linked Soup",
		Ingredients: []recipe.Ingredient{{Text: "x"}},
		Steps:       []string{"s"},
	})

	if !adjusted.IsAIAdjusted {
		t.Error("adjusted recipe must be marked AI-adjusted")
	}
	if adjusted.OriginalRecipeID == nil || *adjusted.OriginalRecipeID != "orig-1" {
		t.Errorf("expected lineage to original, got %v", adjusted.OriginalRecipeID)
	}
	if adjusted.UserID != "user-1" {
		t.Errorf("expected same owner, got %q", adjusted.UserID)
	}
	if adjusted.ID != "" {
		t.Error("merge must not assign an id; the store does")
	}
}
