package recipe

import (
	"github.com/healthymeal/backend/database"
)

// Ingredient is a single recipe ingredient. Amount is a pointer so "no
// amount" survives JSON round trips; NoScale marks ingredients that must
// not be scaled with servings.
type Ingredient struct {
	Text    string   `json:"text" validate:"required"`
	Unit    string   `json:"unit,omitempty"`
	Amount  *float64 `json:"amount,omitempty"`
	NoScale bool     `json:"no_scale,omitempty"`
}

// Tags maps tag names to values, e.g. {"cuisine": "italian"}.
type Tags map[string]string

// Recipe is the persisted recipe row. Ingredients, steps and tags live in
// JSON columns.
type Recipe struct {
	database.BaseModel
	UserID string `gorm:"type:text;index;not null" json:"user_id"`
	Title  string `gorm:"not null" json:"title"`

	Ingredients []Ingredient `gorm:"serializer:json" json:"ingredients"`
	Steps       []string     `gorm:"serializer:json" json:"steps"`
	Tags        Tags         `gorm:"serializer:json" json:"tags"`

	PrepTimeMinutes    *int `json:"prep_time_minutes"`
	CookTimeMinutes    *int `json:"cook_time_minutes"`
	TotalTimeMinutes   *int `json:"total_time_minutes"`
	CaloriesPerServing *int `json:"calories_per_serving"`
	Servings           int  `json:"servings"`

	// IsAIAdjusted marks recipes created by the adjustment pipeline;
	// OriginalRecipeID links back to the source recipe.
	IsAIAdjusted     bool    `gorm:"not null;default:false" json:"is_ai_adjusted"`
	OriginalRecipeID *string `gorm:"type:text;index" json:"original_recipe_id,omitempty"`
}

// TableName keeps the table name stable.
func (Recipe) TableName() string { return "recipes" }

// TotalTime returns the explicit total time, or prep+cook when either is
// present, or nil when nothing is known.
func (r *Recipe) TotalTime() *int {
	if r.TotalTimeMinutes != nil {
		return r.TotalTimeMinutes
	}
	if r.PrepTimeMinutes == nil && r.CookTimeMinutes == nil {
		return nil
	}
	total := 0
	if r.PrepTimeMinutes != nil {
		total += *r.PrepTimeMinutes
	}
	if r.CookTimeMinutes != nil {
		total += *r.CookTimeMinutes
	}
	return &total
}
