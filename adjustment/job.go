package adjustment

import (
	"time"

	"github.com/healthymeal/backend/database"
)

// Status is an adjustment job status.
type Status string

const (
	// StatusProcessing is the only non-terminal status; every job starts here.
	StatusProcessing Status = "processing"
	// StatusCompleted means an adjusted recipe was created.
	StatusCompleted Status = "completed"
	// StatusFailed covers failures with no more specific status.
	StatusFailed Status = "failed"
	// StatusTimeout means the model call timed out.
	StatusTimeout Status = "timeout"
	// StatusInvalidJSON means the model output could not be parsed or validated.
	StatusInvalidJSON Status = "invalid-json"
	// StatusLimitExceeded means the upstream rate limit was hit.
	StatusLimitExceeded Status = "limit-exceeded"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s != StatusProcessing
}

// Parameters steer an adjustment request.
type Parameters struct {
	AvoidAllergens bool     `json:"avoid_allergens"`
	UseExclusions  bool     `json:"use_exclusions"`
	TargetCalories *int     `json:"target_calories,omitempty" validate:"omitempty,gte=0"`
	Presets        []string `json:"presets,omitempty" validate:"omitempty,max=20,dive,min=1"`
}

// Job is the persisted adjustment job row.
type Job struct {
	database.BaseModel
	UserID           string  `gorm:"type:text;index;not null" json:"user_id"`
	OriginalRecipeID string  `gorm:"type:text;index;not null" json:"original_recipe_id"`
	AdjustedRecipeID *string `gorm:"type:text" json:"adjusted_recipe_id,omitempty"`

	Parameters Parameters `gorm:"serializer:json" json:"parameters"`
	Status     Status     `gorm:"type:text;not null;index" json:"status"`
	ModelUsed  string     `json:"model_used"`

	ErrorMessage *string    `json:"error_message,omitempty"`
	DurationMS   *int64     `json:"duration_ms,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// TableName keeps the table name stable.
func (Job) TableName() string { return "ai_adjustments" }
