package openrouter

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Code identifies a gateway failure class.
type Code string

const (
	// CodeConfig indicates invalid client configuration.
	CodeConfig Code = "CONFIG"
	// CodeModelNotAllowed indicates the requested model is not on the allow-list.
	CodeModelNotAllowed Code = "MODEL_NOT_ALLOWED"
	// CodeTimeout indicates the upstream request exceeded the per-attempt timeout.
	CodeTimeout Code = "TIMEOUT"
	// CodeNetwork indicates a transport failure before an HTTP status was received.
	CodeNetwork Code = "NETWORK"
	// CodeHTTP indicates a non-2xx upstream response.
	CodeHTTP Code = "HTTP"
	// CodeInvalidJSON indicates an unparsable body or non-JSON structured text.
	CodeInvalidJSON Code = "INVALID_JSON"
	// CodeEmptyResponse indicates the assistant returned no usable text.
	CodeEmptyResponse Code = "EMPTY_RESPONSE"
	// CodeStructuredInvalid indicates structured output that failed schema validation.
	CodeStructuredInvalid Code = "STRUCTURED_INVALID"
	// CodeStructuredNotSupported indicates the model never produced JSON.
	CodeStructuredNotSupported Code = "STRUCTURED_NOT_SUPPORTED"
)

// Error is the gateway error type. Message is always safe to expose: it
// never contains secrets or prompt content.
type Error struct {
	Code Code
	// Message is a sanitized, client-safe description.
	Message string
	// HTTPStatus is the status this error maps to at the API boundary.
	HTTPStatus int
	// UpstreamStatus is the raw status returned by the provider, for
	// CodeHTTP errors only.
	UpstreamStatus int
	// UpstreamCode is the provider's own error code, when present.
	UpstreamCode string
	// Retryable reports whether the client retries this error internally.
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.UpstreamStatus != 0 {
		return fmt.Sprintf("openrouter: %s (upstream %d): %s", e.Code, e.UpstreamStatus, e.Message)
	}
	return fmt.Sprintf("openrouter: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a gateway *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if stderrors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// IsCode reports whether err is a gateway error with the given code.
func IsCode(err error, code Code) bool {
	gwErr, ok := AsError(err)
	return ok && gwErr.Code == code
}

// IsRateLimited reports whether err is an upstream 429.
func IsRateLimited(err error) bool {
	gwErr, ok := AsError(err)
	return ok && gwErr.Code == CodeHTTP && gwErr.UpstreamStatus == http.StatusTooManyRequests
}

func newConfigError(message string, cause error) *Error {
	return &Error{Code: CodeConfig, Message: message, HTTPStatus: http.StatusInternalServerError, Err: cause}
}

func newModelNotAllowedError(model string) *Error {
	return &Error{
		Code:       CodeModelNotAllowed,
		Message:    "Model not allowed",
		HTTPStatus: http.StatusForbidden,
		Err:        fmt.Errorf("model %q is not in the allow-list", model),
	}
}

func newTimeoutError(cause error) *Error {
	return &Error{Code: CodeTimeout, Message: "Upstream timeout", HTTPStatus: http.StatusGatewayTimeout, Retryable: true, Err: cause}
}

func newNetworkError(cause error) *Error {
	return &Error{Code: CodeNetwork, Message: "Upstream network error", HTTPStatus: http.StatusBadGateway, Retryable: true, Err: cause}
}

func newHTTPError(upstreamStatus int, message, upstreamCode string) *Error {
	apiStatus := http.StatusBadGateway
	if upstreamStatus == http.StatusTooManyRequests {
		apiStatus = http.StatusTooManyRequests
	}
	return &Error{
		Code:           CodeHTTP,
		Message:        message,
		HTTPStatus:     apiStatus,
		UpstreamStatus: upstreamStatus,
		UpstreamCode:   upstreamCode,
		Retryable:      upstreamStatus == http.StatusTooManyRequests || upstreamStatus >= 500,
	}
}

func newInvalidJSONError(message string, cause error) *Error {
	return &Error{Code: CodeInvalidJSON, Message: message, HTTPStatus: http.StatusBadGateway, Err: cause}
}

func newEmptyResponseError() *Error {
	return &Error{Code: CodeEmptyResponse, Message: "Empty model response", HTTPStatus: http.StatusBadGateway}
}

func newStructuredInvalidError(message string, cause error) *Error {
	return &Error{Code: CodeStructuredInvalid, Message: message, HTTPStatus: http.StatusBadGateway, Err: cause}
}

func newStructuredNotSupportedError() *Error {
	return &Error{Code: CodeStructuredNotSupported, Message: "Structured output not supported", HTTPStatus: http.StatusBadGateway}
}

// isRetryable reports whether the client should retry the request.
func isRetryable(err error) bool {
	gwErr, ok := AsError(err)
	return ok && gwErr.Retryable
}
