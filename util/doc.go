// Package util provides small generic helpers shared across the backend.
package util
