// Package errors provides unified error handling for the HealthyMeal
// backend. It implements structured error types with stable error codes,
// HTTP status mapping, and retryable detection.
package errors
