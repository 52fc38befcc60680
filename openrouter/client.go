package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/healthymeal/backend/logger"
	"github.com/healthymeal/backend/validation"
)

// Client talks to the OpenRouter chat completions API.
type Client struct {
	cfg         Config
	baseURL     string
	timeout     time.Duration
	maxAttempts int
	allowed     map[string]struct{}

	httpClient *http.Client
	now        func() time.Time
	sleep      func(context.Context, time.Duration) error
	jitter     func() time.Duration
	log        *logger.Logger
}

// Option customizes a Client, mainly for tests.
type Option func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger replaces the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log.WithComponent("openrouter") }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithSleep replaces the retry wait function.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// WithJitter replaces the backoff jitter source.
func WithJitter(jitter func() time.Duration) Option {
	return func(c *Client) { c.jitter = jitter }
}

// New builds a Client. Configuration problems surface immediately with the
// CONFIG error code; no network calls are made.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:         cfg,
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:     cfg.timeout(),
		maxAttempts: cfg.MaxAttempts,
		allowed:     cfg.allowedModelSet(),
		httpClient:  &http.Client{},
		now:         time.Now,
		sleep:       contextSleep,
		jitter:      defaultJitter,
		log:         logger.GetGlobalLogger().WithComponent("openrouter"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultModel returns the model used when a request does not name one.
func (c *Client) DefaultModel() string { return c.cfg.DefaultModel }

// Complete sends a chat completion request and returns the raw response
// plus the trimmed assistant text. Blank assistant text is an
// EMPTY_RESPONSE error and is never retried.
func (c *Client) Complete(ctx context.Context, in Input) (*ChatCompletion, string, error) {
	in.SystemMessage = strings.TrimSpace(in.SystemMessage)
	in.UserMessage = strings.TrimSpace(in.UserMessage)
	if err := validation.Struct(&in); err != nil {
		return nil, "", err
	}

	model := in.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}
	if c.allowed != nil {
		if _, ok := c.allowed[model]; !ok {
			return nil, "", newModelNotAllowedError(model)
		}
	}

	params := c.cfg.DefaultParams.merged(in.Params)
	if err := validation.Struct(&params); err != nil {
		return nil, "", err
	}

	body := chatRequest{
		Model:            model,
		Messages:         buildMessages(in),
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
		Seed:             params.Seed,
		Stop:             params.Stop,
		ResponseFormat:   in.ResponseFormat,
	}

	startedAt := c.now()
	raw, err := c.postChat(ctx, body)
	elapsed := c.now().Sub(startedAt)
	c.log.Debug("Chat completion finished", logger.Fields(
		logger.FieldModel, model,
		logger.FieldDuration, elapsed.Milliseconds(),
		"input", RedactInput(in),
	))
	if err != nil {
		return nil, "", err
	}

	text, err := extractAssistantText(raw)
	if err != nil {
		return nil, "", err
	}
	return raw, text, nil
}

// CompleteText is Complete without structured output. The response format
// is dropped and only the assistant text is returned.
func (c *Client) CompleteText(ctx context.Context, in Input) (string, error) {
	in.ResponseFormat = nil
	_, text, err := c.Complete(ctx, in)
	return text, err
}

// HealthCheck sends a minimal ping completion. A nil return means the
// upstream responded with usable text.
func (c *Client) HealthCheck(ctx context.Context) error {
	temp := 0.0
	maxTokens := 5
	_, err := c.CompleteText(ctx, Input{
		SystemMessage: `You are a health check endpoint. Reply with "ok".`,
		UserMessage:   "ping",
		Params:        &ModelParams{Temperature: &temp, MaxTokens: &maxTokens},
	})
	return err
}

// postChat runs the retry loop around single attempts.
func (c *Client) postChat(ctx context.Context, body chatRequest) (*ChatCompletion, error) {
	url := c.baseURL + "/chat/completions"
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, newConfigError("Unencodable request body", err)
	}

	startedAt := c.now()
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		raw, err := c.postOnce(ctx, url, payload)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		retry := attempt < c.maxAttempts && isRetryable(err)
		c.log.Warn("Request failed", logger.Fields(
			logger.FieldAttempt, attempt,
			"max_attempts", c.maxAttempts,
			logger.FieldDuration, c.now().Sub(startedAt).Milliseconds(),
			"error", RedactError(err),
			"url", url,
		))
		if !retry {
			break
		}
		if sleepErr := c.sleep(ctx, c.retryDelay(err, attempt)); sleepErr != nil {
			break
		}
	}
	return nil, lastErr
}

// postOnce performs a single HTTP attempt with its own timeout. The body
// is parsed as JSON regardless of status so upstream error details are
// available; an unparsable body is INVALID_JSON and not retried.
func (c *Client) postOnce(ctx context.Context, url string, payload []byte) (*ChatCompletion, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, newNetworkError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if appURL := strings.TrimSpace(c.cfg.AppURL); appURL != "" {
		req.Header.Set("HTTP-Referer", appURL)
	}
	if appName := strings.TrimSpace(c.cfg.AppName); appName != "" {
		req.Header.Set("X-Title", appName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
			return nil, newTimeoutError(err)
		}
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return nil, newTimeoutError(err)
		}
		return nil, newNetworkError(err)
	}

	var parsed ChatCompletion
	if len(bytes.TrimSpace(rawBody)) > 0 {
		if err := json.Unmarshal(rawBody, &parsed); err != nil {
			return nil, newInvalidJSONError("Upstream returned invalid JSON", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var upstreamMsg, upstreamCode string
		if parsed.Error != nil {
			upstreamMsg = parsed.Error.Message
			upstreamCode = parsed.Error.Code
		}
		return nil, newHTTPError(resp.StatusCode, safeUpstreamMessage(resp.StatusCode, upstreamMsg), upstreamCode)
	}
	return &parsed, nil
}

// retryDelay picks the wait before the next attempt. Rate limits without a
// hint wait a fixed second; everything else uses capped exponential
// backoff with jitter.
func (c *Client) retryDelay(err error, attempt int) time.Duration {
	if IsRateLimited(err) {
		return time.Second
	}
	base := 250 * time.Millisecond << (attempt - 1)
	delay := base + c.jitter()
	if delay > 5*time.Second {
		delay = 5 * time.Second
	}
	return delay
}

// safeUpstreamMessage sanitizes provider error text. Auth, rate limit and
// server failures get fixed messages; other upstream text passes through
// only when short.
func safeUpstreamMessage(status int, upstreamMessage string) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "Upstream authorization failed"
	case status == http.StatusTooManyRequests:
		return "Upstream rate limited"
	case status >= 500:
		return "Upstream service error"
	case upstreamMessage != "" && len(upstreamMessage) <= 200:
		return upstreamMessage
	default:
		return "Upstream request failed"
	}
}

func extractAssistantText(raw *ChatCompletion) (string, error) {
	if raw == nil || len(raw.Choices) == 0 {
		return "", newEmptyResponseError()
	}
	text := strings.TrimSpace(raw.Choices[0].Message.Content)
	if text == "" {
		return "", newEmptyResponseError()
	}
	return text, nil
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func defaultJitter() time.Duration {
	return time.Duration(rand.Intn(100)) * time.Millisecond
}
