package openrouter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/healthymeal/backend/validation"
)

// repairInstruction is appended to the system message on the single repair
// retry when the first structured attempt did not yield valid output.
const repairInstruction = "Return ONLY valid JSON matching the provided schema. Do not wrap in markdown. Do not add commentary."

// CompleteStructured runs a completion with a json_schema response format
// and decodes the assistant text into T. The target struct is the local
// contract: unknown fields are rejected and validate tags are enforced.
//
// When the first attempt produces non-JSON or schema-invalid output, one
// repair retry is made with a stricter system instruction. A second
// schema failure is STRUCTURED_INVALID; persistent non-JSON output is
// STRUCTURED_NOT_SUPPORTED.
func CompleteStructured[T any](ctx context.Context, c *Client, in Input) (T, error) {
	var zero T

	if in.ResponseFormat == nil {
		return zero, newStructuredInvalidError("Missing response format", nil)
	}
	if err := validation.Struct(in.ResponseFormat); err != nil {
		return zero, newStructuredInvalidError("Invalid response format", err)
	}

	attemptOnce := func(systemOverride string) (T, error) {
		next := in
		if systemOverride != "" {
			next.SystemMessage = systemOverride
		}
		_, text, err := c.Complete(ctx, next)
		if err != nil {
			return zero, err
		}
		return decodeStructured[T](text)
	}

	out, err := attemptOnce("")
	if err == nil {
		return out, nil
	}
	if !IsCode(err, CodeInvalidJSON) && !IsCode(err, CodeStructuredInvalid) {
		return zero, err
	}

	parts := make([]string, 0, 2)
	if in.SystemMessage != "" {
		parts = append(parts, in.SystemMessage)
	}
	parts = append(parts, repairInstruction)

	out, err = attemptOnce(strings.Join(parts, "\n"))
	if err == nil {
		return out, nil
	}
	switch {
	case IsCode(err, CodeStructuredInvalid):
		return zero, newStructuredInvalidError("Structured output validation failed", err)
	case IsCode(err, CodeInvalidJSON):
		return zero, newStructuredNotSupportedError()
	default:
		return zero, err
	}
}

// decodeStructured parses assistant text into T with strict decoding.
func decodeStructured[T any](text string) (T, error) {
	var zero T

	raw, err := extractJSON(text)
	if err != nil {
		return zero, err
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var out T
	if err := dec.Decode(&out); err != nil {
		return zero, newStructuredInvalidError("Structured output does not match schema", err)
	}
	if err := validation.Struct(&out); err != nil {
		return zero, newStructuredInvalidError("Structured output failed validation", err)
	}
	return out, nil
}

// extractJSON returns text when it is already valid JSON, otherwise tries
// the first-to-last brace slice, then the first-to-last bracket slice.
func extractJSON(text string) (string, error) {
	candidate := strings.TrimSpace(text)
	if candidate == "" {
		return "", newInvalidJSONError("Structured output was empty", nil)
	}
	if json.Valid([]byte(candidate)) {
		return candidate, nil
	}

	if start, end := strings.Index(candidate, "{"), strings.LastIndex(candidate, "}"); start != -1 && end > start {
		slice := candidate[start : end+1]
		if json.Valid([]byte(slice)) {
			return slice, nil
		}
		return "", newInvalidJSONError("Structured output is not valid JSON", nil)
	}

	if start, end := strings.Index(candidate, "["), strings.LastIndex(candidate, "]"); start != -1 && end > start {
		slice := candidate[start : end+1]
		if json.Valid([]byte(slice)) {
			return slice, nil
		}
		return "", newInvalidJSONError("Structured output is not valid JSON", nil)
	}

	return "", newInvalidJSONError("Structured output is not valid JSON", nil)
}
