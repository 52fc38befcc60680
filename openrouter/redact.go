package openrouter

import "fmt"

// Prompt content and credentials never reach logs. Content is replaced
// with a length marker so log readers can still judge payload size.

// RedactInput returns a log-safe view of a completion input.
func RedactInput(in Input) map[string]interface{} {
	out := map[string]interface{}{
		"model": in.Model,
	}
	if in.SystemMessage != "" {
		out["system_message"] = redactContent(in.SystemMessage)
	}
	out["user_message"] = redactContent(in.UserMessage)
	if len(in.History) > 0 {
		history := make([]map[string]interface{}, len(in.History))
		for i, m := range in.History {
			history[i] = map[string]interface{}{
				"role":    string(m.Role),
				"content": redactContent(m.Content),
			}
		}
		out["history"] = history
	}
	if in.Params != nil {
		out["params"] = *in.Params
	}
	if in.ResponseFormat != nil {
		out["response_format"] = in.ResponseFormat.JSONSchema.Name
	}
	return out
}

// RedactError returns a log-safe view of an error. Gateway errors expose
// their taxonomy fields; everything else only its type and message.
func RedactError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	if gwErr, ok := AsError(err); ok {
		out := map[string]interface{}{
			"code":      string(gwErr.Code),
			"message":   gwErr.Message,
			"retryable": gwErr.Retryable,
		}
		if gwErr.UpstreamStatus != 0 {
			out["upstream_status"] = gwErr.UpstreamStatus
		}
		if gwErr.UpstreamCode != "" {
			out["upstream_code"] = gwErr.UpstreamCode
		}
		return out
	}
	return map[string]interface{}{
		"type":    fmt.Sprintf("%T", err),
		"message": err.Error(),
	}
}

func redactContent(content string) string {
	return fmt.Sprintf("[redacted:%d]", len(content))
}
