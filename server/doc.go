// Package server provides the HTTP server for the HealthyMeal backend,
// built on Gin with a configurable middleware stack.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: Panic recovery with structured logging
//   - Logging: Request/response logging with duration tracking
//   - CORS: Cross-origin resource sharing configuration
//   - RequestID: Request ID generation and propagation
//   - RateLimit: Per-key sliding-window rate limiting
//   - BodySize: Request body size limits
//   - Auth: Bearer token authentication
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: Health check aggregation
//   - /info: Application information
//   - /metrics: Runtime metrics
//   - /version: Build version information
package server
