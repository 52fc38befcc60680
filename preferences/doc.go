// Package preferences stores per-user dietary preferences used to steer
// recipe adjustments.
package preferences
