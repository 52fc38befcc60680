// Package adjustment orchestrates AI recipe adjustments: it loads the
// source recipe and the user's preferences, tracks a job row through the
// model call, parses and validates the structured output, and persists the
// adjusted recipe. Jobs move from processing to exactly one terminal
// status; terminal rows are never rewritten.
package adjustment
