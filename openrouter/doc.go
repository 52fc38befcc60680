// Package openrouter implements a client for the OpenRouter chat
// completions API (OpenAI-compatible). It handles retries with exponential
// backoff, per-attempt timeouts, model allow-listing, message budget
// trimming, structured JSON output with a single repair retry, and
// redaction of prompt content in logs.
//
// Errors carry a stable Code from the gateway taxonomy so callers can map
// failures to job statuses and HTTP responses without string matching.
package openrouter
