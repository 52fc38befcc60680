// Package auth issues and validates the bearer tokens used by the
// HealthyMeal API. Tokens are HS256-signed JWTs carrying the user id;
// validation plugs into the server's Auth middleware.
package auth
