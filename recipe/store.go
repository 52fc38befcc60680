package recipe

import (
	"context"

	"github.com/healthymeal/backend/database"
)

// Store loads and saves recipes. All reads are scoped to the owning user.
type Store interface {
	// GetByID returns the user's recipe or a NOT_FOUND AppError.
	GetByID(ctx context.Context, userID, id string) (*Recipe, error)
	// Create inserts a new recipe row.
	Create(ctx context.Context, r *Recipe) error
}

type gormStore struct {
	db *database.DB
}

// NewStore returns a GORM-backed Store.
func NewStore(db *database.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetByID(ctx context.Context, userID, id string) (*Recipe, error) {
	var r Recipe
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, database.FromDatabase(err, "recipe").WithDetail("id", id)
		}
		return nil, database.FromDatabase(err, "recipe")
	}
	return &r, nil
}

func (s *gormStore) Create(ctx context.Context, r *Recipe) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return database.FromDatabase(err, "recipe")
	}
	return nil
}
