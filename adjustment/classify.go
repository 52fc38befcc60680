package adjustment

import (
	"net/http"

	"github.com/healthymeal/backend/openrouter"
)

// Failure is the terminal job outcome derived from an error.
type Failure struct {
	Status  Status
	Message string
}

// Classify maps a pipeline error to its terminal job status. Output parse
// and schema failures become invalid-json; gateway timeouts become
// timeout; upstream rate limits become limit-exceeded; gateway JSON and
// structured-output failures become invalid-json; everything else is
// failed.
func Classify(err error) Failure {
	if err == nil {
		return Failure{Status: StatusFailed, Message: "Unknown error"}
	}

	if IsParseError(err) {
		return Failure{Status: StatusInvalidJSON, Message: err.Error()}
	}

	if gwErr, ok := openrouter.AsError(err); ok {
		switch {
		case gwErr.Code == openrouter.CodeTimeout:
			return Failure{Status: StatusTimeout, Message: gwErr.Message}
		case gwErr.Code == openrouter.CodeHTTP && gwErr.UpstreamStatus == http.StatusTooManyRequests:
			return Failure{Status: StatusLimitExceeded, Message: gwErr.Message}
		case gwErr.Code == openrouter.CodeInvalidJSON,
			gwErr.Code == openrouter.CodeStructuredInvalid,
			gwErr.Code == openrouter.CodeStructuredNotSupported:
			return Failure{Status: StatusInvalidJSON, Message: gwErr.Message}
		default:
			return Failure{Status: StatusFailed, Message: gwErr.Message}
		}
	}

	return Failure{Status: StatusFailed, Message: err.Error()}
}
