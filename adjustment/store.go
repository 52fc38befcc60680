package adjustment

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/healthymeal/backend/database"
)

// ErrJobTerminal is returned when a completion or failure update targets a
// job that already reached a terminal status. Terminal rows are immutable.
var ErrJobTerminal = stderrors.New("adjustment job is already in a terminal status")

// Store persists adjustment jobs. All operations are scoped to the owning
// user.
type Store interface {
	Insert(ctx context.Context, job *Job) error
	// Complete transitions a processing job to completed. ErrJobTerminal
	// is returned when the job already finished.
	Complete(ctx context.Context, userID, jobID, adjustedRecipeID string, durationMS int64) error
	// Fail transitions a processing job to the given terminal failure
	// status. ErrJobTerminal is returned when the job already finished.
	Fail(ctx context.Context, userID, jobID string, status Status, message string, durationMS int64) error
	// GetByID returns the user's job or a NOT_FOUND AppError.
	GetByID(ctx context.Context, userID, id string) (*Job, error)
}

type gormStore struct {
	db  *database.DB
	now func() time.Time
}

// NewStore returns a GORM-backed Store.
func NewStore(db *database.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

func (s *gormStore) Insert(ctx context.Context, job *Job) error {
	if job.Status == "" {
		job.Status = StatusProcessing
	}
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return database.FromDatabase(err, "adjustment job")
	}
	return nil
}

func (s *gormStore) Complete(ctx context.Context, userID, jobID, adjustedRecipeID string, durationMS int64) error {
	completedAt := s.now()
	return s.transition(ctx, userID, jobID, map[string]interface{}{
		"status":             StatusCompleted,
		"adjusted_recipe_id": adjustedRecipeID,
		"duration_ms":        durationMS,
		"completed_at":       completedAt,
	})
}

func (s *gormStore) Fail(ctx context.Context, userID, jobID string, status Status, message string, durationMS int64) error {
	if !status.Terminal() || status == StatusCompleted {
		return fmt.Errorf("invalid failure status %q", status)
	}
	completedAt := s.now()
	return s.transition(ctx, userID, jobID, map[string]interface{}{
		"status":        status,
		"error_message": message,
		"duration_ms":   durationMS,
		"completed_at":  completedAt,
	})
}

// transition applies a guarded update: only rows still in processing move.
func (s *gormStore) transition(ctx context.Context, userID, jobID string, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).
		Model(&Job{}).
		Where("id = ? AND user_id = ? AND status = ?", jobID, userID, StatusProcessing).
		Updates(updates)
	if res.Error != nil {
		return database.FromDatabase(res.Error, "adjustment job")
	}
	if res.RowsAffected == 0 {
		return ErrJobTerminal
	}
	return nil
}

func (s *gormStore) GetByID(ctx context.Context, userID, id string) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&job).Error
	if err != nil {
		return nil, database.FromDatabase(err, "adjustment job")
	}
	return &job, nil
}
