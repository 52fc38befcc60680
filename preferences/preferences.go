package preferences

import (
	"context"
	"time"

	"github.com/healthymeal/backend/database"
)

// Preferences is the per-user dietary profile. Allergens and exclusions
// are free-text lists stored as JSON columns.
type Preferences struct {
	UserID string `gorm:"type:text;primaryKey" json:"user_id"`

	Allergens  []string `gorm:"serializer:json" json:"allergens"`
	Exclusions []string `gorm:"serializer:json" json:"exclusions"`

	Diet           *string `json:"diet"`
	TargetCalories *int    `json:"target_calories" validate:"omitempty,gte=0"`
	TargetServings *int    `json:"target_servings" validate:"omitempty,gte=1"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name stable.
func (Preferences) TableName() string { return "user_preferences" }

// Store loads and saves user preferences.
type Store interface {
	// GetByUserID returns the user's preferences, or (nil, nil) when the
	// user has none yet. Missing preferences are not an error.
	GetByUserID(ctx context.Context, userID string) (*Preferences, error)
	// Upsert creates or replaces the user's preferences.
	Upsert(ctx context.Context, p *Preferences) error
}

type gormStore struct {
	db *database.DB
}

// NewStore returns a GORM-backed Store.
func NewStore(db *database.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetByUserID(ctx context.Context, userID string) (*Preferences, error) {
	var p Preferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, database.FromDatabase(err, "preferences")
	}
	return &p, nil
}

func (s *gormStore) Upsert(ctx context.Context, p *Preferences) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return database.FromDatabase(err, "preferences")
	}
	return nil
}
