package adjustment

import (
	"context"
	"time"

	"github.com/healthymeal/backend/logger"
	"github.com/healthymeal/backend/openrouter"
	"github.com/healthymeal/backend/preferences"
	"github.com/healthymeal/backend/recipe"
	"github.com/healthymeal/backend/util"
	"github.com/healthymeal/backend/validation"
)

// Model call parameters for recipe adjustments.
const (
	adjustmentTemperature = 0.2
	adjustmentMaxTokens   = 1200
)

// Completer is the gateway surface the orchestrator needs.
type Completer interface {
	CompleteText(ctx context.Context, in openrouter.Input) (string, error)
}

// StartCommand is the request body for starting an adjustment.
type StartCommand struct {
	Parameters Parameters `json:"parameters"`
	Model      string     `json:"model" validate:"required,max=100"`
}

// Result is the synchronous outcome of a completed adjustment.
type Result struct {
	JobID            string         `json:"job_id"`
	Status           Status         `json:"status"`
	AdjustedRecipeID string         `json:"adjusted_recipe_id"`
	AdjustedRecipe   *recipe.Recipe `json:"adjusted_recipe"`
}

// Service runs the adjustment pipeline.
type Service struct {
	recipes recipe.Store
	prefs   preferences.Store
	jobs    Store
	client  Completer
	log     *logger.Logger
	now     func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock replaces the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService wires the orchestrator.
func NewService(recipes recipe.Store, prefs preferences.Store, jobs Store, client Completer, log *logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		recipes: recipes,
		prefs:   prefs,
		jobs:    jobs,
		client:  client,
		log:     log.WithComponent("adjustment"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs one adjustment synchronously. The recipe is loaded before the
// job row is inserted so a missing recipe never leaves an orphan job. Any
// failure after insertion moves the job to exactly one terminal failure
// status; the original error always surfaces to the caller.
func (s *Service) Start(ctx context.Context, userID, recipeID string, cmd StartCommand) (*Result, error) {
	if err := validation.Struct(&cmd); err != nil {
		return nil, err
	}

	startedAt := s.now()

	original, err := s.recipes.GetByID(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	job := &Job{
		UserID:           userID,
		OriginalRecipeID: original.ID,
		Parameters:       cmd.Parameters,
		Status:           StatusProcessing,
		ModelUsed:        cmd.Model,
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info("Adjustment started", logger.Fields(
		logger.FieldJobID, job.ID,
		logger.FieldUserID, userID,
		logger.FieldRecipeID, recipeID,
		logger.FieldModel, cmd.Model,
	))

	adjusted, err := s.run(ctx, userID, original, cmd)
	durationMS := s.now().Sub(startedAt).Milliseconds()

	if err != nil {
		s.failJob(ctx, userID, job.ID, err, durationMS)
		return nil, err
	}

	if err := s.jobs.Complete(ctx, userID, job.ID, adjusted.ID, durationMS); err != nil {
		// The adjusted recipe exists; a lost status update must not fail
		// the request.
		s.log.Error("Job completion update failed", logger.Fields(
			logger.FieldJobID, job.ID,
			logger.FieldError, err.Error(),
		))
	}

	s.log.Info("Adjustment completed", logger.Fields(
		logger.FieldJobID, job.ID,
		logger.FieldRecipeID, adjusted.ID,
		logger.FieldDuration, durationMS,
	))

	return &Result{
		JobID:            job.ID,
		Status:           StatusCompleted,
		AdjustedRecipeID: adjusted.ID,
		AdjustedRecipe:   adjusted,
	}, nil
}

// run executes the fallible middle of the pipeline: preferences, prompt,
// model call, parse, merge, persist.
func (s *Service) run(ctx context.Context, userID string, original *recipe.Recipe, cmd StartCommand) (*recipe.Recipe, error) {
	prefs, err := s.prefs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	userMessage, err := buildUserMessage(original, cmd.Parameters, prefs)
	if err != nil {
		return nil, err
	}

	text, err := s.client.CompleteText(ctx, openrouter.Input{
		SystemMessage: systemPrompt,
		UserMessage:   userMessage,
		Model:         cmd.Model,
		Params: &openrouter.ModelParams{
			Temperature: util.Ptr(adjustmentTemperature),
			MaxTokens:   util.Ptr(adjustmentMaxTokens),
		},
	})
	if err != nil {
		return nil, err
	}

	output, err := ParseAdjustedOutput(text)
	if err != nil {
		s.log.Warn("Adjustment output parse failed", logger.Fields(
			logger.FieldUserID, userID,
			"output_length", len(text),
		))
		return nil, err
	}

	adjusted := Merge(original, output)
	if err := s.recipes.Create(ctx, adjusted); err != nil {
		return nil, err
	}
	return adjusted, nil
}

// failJob records the terminal failure status. Update failures are logged
// but never mask the original pipeline error.
func (s *Service) failJob(ctx context.Context, userID, jobID string, cause error, durationMS int64) {
	failure := Classify(cause)

	s.log.Error("Adjustment failed", logger.Fields(
		logger.FieldJobID, jobID,
		logger.FieldUserID, userID,
		logger.FieldStatus, string(failure.Status),
		logger.FieldError, cause.Error(),
		logger.FieldDuration, durationMS,
	))

	if err := s.jobs.Fail(ctx, userID, jobID, failure.Status, failure.Message, durationMS); err != nil {
		s.log.Error("Job failure update failed", logger.Fields(
			logger.FieldJobID, jobID,
			logger.FieldError, err.Error(),
		))
	}
}
