package adjustment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/healthymeal/backend/preferences"
	"github.com/healthymeal/backend/recipe"
)

// systemPrompt instructs the model to act as a culinary assistant and
// answer with schema-conformant JSON only.
const systemPrompt = "You are a culinary assistant that adjusts recipes. " +
	"Return ONLY valid JSON conforming to the schema. " +
	"Do not add commentary or markdown. " +
	"Keep clarity, units and sensible portions."

type promptRecipe struct {
	Title              string              `json:"title"`
	Ingredients        []recipe.Ingredient `json:"ingredients"`
	Steps              []string            `json:"steps"`
	Tags               recipe.Tags         `json:"tags"`
	Servings           int                 `json:"servings"`
	CaloriesPerServing *int                `json:"calories_per_serving"`
	PrepTimeMinutes    *int                `json:"prep_time_minutes"`
	CookTimeMinutes    *int                `json:"cook_time_minutes"`
	TotalTimeMinutes   *int                `json:"total_time_minutes"`
}

type promptParameters struct {
	AvoidAllergens bool     `json:"avoid_allergens"`
	UseExclusions  bool     `json:"use_exclusions"`
	TargetCalories *int     `json:"target_calories"`
	Presets        []string `json:"presets"`
}

type promptPreferences struct {
	Allergens      []string `json:"allergens"`
	Exclusions     []string `json:"exclusions"`
	Diet           *string  `json:"diet"`
	TargetCalories *int     `json:"target_calories"`
}

type promptPayload struct {
	Recipe      promptRecipe      `json:"recipe"`
	Parameters  promptParameters  `json:"parameters"`
	Preferences promptPreferences `json:"preferences"`
}

// buildUserMessage embeds the recipe, the request parameters and the
// relevant preference lists as JSON, followed by the output schema.
// Allergens are included only when avoidance was requested, exclusions
// only when their use was requested.
func buildUserMessage(original *recipe.Recipe, params Parameters, prefs *preferences.Preferences) (string, error) {
	payload := promptPayload{
		Recipe: promptRecipe{
			Title:              original.Title,
			Ingredients:        original.Ingredients,
			Steps:              original.Steps,
			Tags:               original.Tags,
			Servings:           original.Servings,
			CaloriesPerServing: original.CaloriesPerServing,
			PrepTimeMinutes:    original.PrepTimeMinutes,
			CookTimeMinutes:    original.CookTimeMinutes,
			TotalTimeMinutes:   original.TotalTimeMinutes,
		},
		Parameters: promptParameters{
			AvoidAllergens: params.AvoidAllergens,
			UseExclusions:  params.UseExclusions,
			TargetCalories: params.TargetCalories,
			Presets:        emptyIfNil(params.Presets),
		},
		Preferences: promptPreferences{
			Allergens:  []string{},
			Exclusions: []string{},
		},
	}
	if prefs != nil {
		if params.AvoidAllergens {
			payload.Preferences.Allergens = emptyIfNil(prefs.Allergens)
		}
		if params.UseExclusions {
			payload.Preferences.Exclusions = emptyIfNil(prefs.Exclusions)
		}
		payload.Preferences.Diet = prefs.Diet
		payload.Preferences.TargetCalories = prefs.TargetCalories
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding prompt payload: %w", err)
	}
	schemaJSON, err := json.Marshal(adjustedRecipeSchema())
	if err != nil {
		return "", fmt.Errorf("encoding output schema: %w", err)
	}

	return strings.Join([]string{
		"Adjust the recipe to the parameters and preferences.",
		"If target_calories is set, aim for that value per serving.",
		"If allergens or exclusions are listed, avoid them.",
		"Do not invent allergens or exclusions beyond the lists.",
		"Keep the recipe coherent and feasible.",
		"Respond with JSON conforming to this schema:",
		string(schemaJSON),
		"Input JSON: " + string(payloadJSON),
	}, "\n"), nil
}

// adjustedRecipeSchema is the JSON Schema echoed to the model.
func adjustedRecipeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"title", "ingredients", "steps"},
		"properties": map[string]interface{}{
			"title": map[string]interface{}{"type": "string"},
			"ingredients": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"text"},
					"properties": map[string]interface{}{
						"text":     map[string]interface{}{"type": "string"},
						"unit":     map[string]interface{}{"type": "string"},
						"amount":   map[string]interface{}{"type": "number"},
						"no_scale": map[string]interface{}{"type": "boolean"},
					},
				},
			},
			"steps": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"calories_per_serving": map[string]interface{}{"type": "number"},
			"servings":             map[string]interface{}{"type": "number"},
			"tags": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": map[string]interface{}{"type": "string"},
			},
		},
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
