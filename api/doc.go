// Package api exposes the HealthyMeal REST endpoints on a Gin engine.
//
// Routes are registered under /api and protected by bearer token
// authentication. Error responses use the shared error envelope; gateway
// errors from the model upstream are translated to their mapped HTTP
// statuses (429 for upstream rate limits, 504 for timeouts, 502 for other
// upstream failures).
package api
