// Package validation provides struct validation built on go-playground/validator.
// Validation failures are converted into structured application errors with
// per-field details so handlers can return them to clients directly.
package validation
