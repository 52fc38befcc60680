package adjustment

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/healthymeal/backend/recipe"
	"github.com/healthymeal/backend/validation"
)

// AdjustedOutput is the model's answer. Title, ingredients and steps are
// mandatory; everything else falls back to the original recipe during the
// merge. Unknown fields are tolerated and dropped.
type AdjustedOutput struct {
	Title              string              `json:"title" validate:"required"`
	Ingredients        []recipe.Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Steps              []string            `json:"steps" validate:"required,min=1,dive,min=1"`
	CaloriesPerServing *int                `json:"calories_per_serving,omitempty" validate:"omitempty,gte=0"`
	Servings           *int                `json:"servings,omitempty" validate:"omitempty,gte=1"`
	Tags               recipe.Tags         `json:"tags,omitempty"`
}

// ParseError marks model output that could not be turned into a valid
// AdjustedOutput. It maps to the invalid-json job status.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseAdjustedOutput turns raw assistant text into an AdjustedOutput:
// strip one markdown fence, try a direct parse, then the first-to-last
// brace slice, then validate.
func ParseAdjustedOutput(text string) (*AdjustedOutput, error) {
	candidate := stripMarkdownFence(strings.TrimSpace(text))
	if candidate == "" {
		return nil, &ParseError{Reason: "AI response was empty"}
	}

	raw := candidate
	if !json.Valid([]byte(raw)) {
		start, end := strings.Index(candidate, "{"), strings.LastIndex(candidate, "}")
		if start == -1 || end <= start {
			return nil, &ParseError{Reason: "AI response is not valid JSON"}
		}
		raw = candidate[start : end+1]
		if !json.Valid([]byte(raw)) {
			return nil, &ParseError{Reason: "AI response is not valid JSON"}
		}
	}

	var out AdjustedOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &ParseError{Reason: "AI response does not match the expected shape", Err: err}
	}
	trimOutput(&out)
	if err := validation.Struct(&out); err != nil {
		return nil, &ParseError{Reason: "AI response failed schema validation", Err: err}
	}
	return &out, nil
}

// trimOutput normalizes whitespace the way lenient upstream models emit it.
func trimOutput(out *AdjustedOutput) {
	out.Title = strings.TrimSpace(out.Title)
	for i := range out.Ingredients {
		out.Ingredients[i].Text = strings.TrimSpace(out.Ingredients[i].Text)
		out.Ingredients[i].Unit = strings.TrimSpace(out.Ingredients[i].Unit)
	}
	for i := range out.Steps {
		out.Steps[i] = strings.TrimSpace(out.Steps[i])
	}
}

// stripMarkdownFence removes a single surrounding ``` fence when present.
func stripMarkdownFence(value string) string {
	if !strings.HasPrefix(value, "```") {
		return value
	}
	firstLineEnd := strings.Index(value, "\n")
	if firstLineEnd == -1 {
		return value
	}
	lastFence := strings.LastIndex(value, "```")
	if lastFence <= firstLineEnd {
		return value
	}
	return strings.TrimSpace(value[firstLineEnd+1 : lastFence])
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var perr *ParseError
	return stderrors.As(err, &perr)
}
