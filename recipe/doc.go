// Package recipe defines the recipe model and its persistence. Ingredient
// lists, steps and tags are stored as JSON columns.
package recipe
