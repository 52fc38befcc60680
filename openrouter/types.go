package openrouter

// Input limits mirrored in validate tags below.
const (
	MaxMessageChars    = 20000
	MaxHistoryMessages = 50
	MaxModelNameChars  = 200
	MaxSchemaNameChars = 100
	MaxMaxTokens       = 8192

	// messageBudgetChars caps the combined content length of an assembled
	// message list. Oldest history entries are dropped to fit.
	messageBudgetChars = 2 * MaxMessageChars
)

// Role is a chat message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required,max=20000"`
}

// ModelParams are OpenAI-compatible sampling parameters. Pointer fields
// distinguish "unset" from zero so call-level params override instance
// defaults field by field.
type ModelParams struct {
	Temperature      *float64 `json:"temperature,omitempty" mapstructure:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens        *int     `json:"max_tokens,omitempty" mapstructure:"max_tokens" validate:"omitempty,gt=0,lte=8192"`
	TopP             *float64 `json:"top_p,omitempty" mapstructure:"top_p" validate:"omitempty,gte=0,lte=1"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" mapstructure:"frequency_penalty" validate:"omitempty,gte=-2,lte=2"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty" mapstructure:"presence_penalty" validate:"omitempty,gte=-2,lte=2"`
	Seed             *int     `json:"seed,omitempty" mapstructure:"seed"`
	Stop             []string `json:"stop,omitempty" mapstructure:"stop" validate:"omitempty,max=10,dive,min=1,max=200"`
}

// merged returns base overridden by override, field by field.
func (p ModelParams) merged(override *ModelParams) ModelParams {
	if override == nil {
		return p
	}
	out := p
	if override.Temperature != nil {
		out.Temperature = override.Temperature
	}
	if override.MaxTokens != nil {
		out.MaxTokens = override.MaxTokens
	}
	if override.TopP != nil {
		out.TopP = override.TopP
	}
	if override.FrequencyPenalty != nil {
		out.FrequencyPenalty = override.FrequencyPenalty
	}
	if override.PresencePenalty != nil {
		out.PresencePenalty = override.PresencePenalty
	}
	if override.Seed != nil {
		out.Seed = override.Seed
	}
	if len(override.Stop) > 0 {
		out.Stop = override.Stop
	}
	return out
}

// ResponseFormat requests structured JSON output from the provider.
type ResponseFormat struct {
	Type       string     `json:"type" validate:"required,eq=json_schema"`
	JSONSchema JSONSchema `json:"json_schema" validate:"required"`
}

// JSONSchema is the schema body the provider enforces.
type JSONSchema struct {
	Name   string                 `json:"name" validate:"required,max=100"`
	Strict bool                   `json:"strict" validate:"required,eq=true"`
	Schema map[string]interface{} `json:"schema" validate:"required"`
}

// NewJSONSchemaFormat builds a strict json_schema response format.
func NewJSONSchemaFormat(name string, schema map[string]interface{}) *ResponseFormat {
	return &ResponseFormat{
		Type:       "json_schema",
		JSONSchema: JSONSchema{Name: name, Strict: true, Schema: schema},
	}
}

// Input describes a chat completion request. UserMessage is required;
// everything else falls back to client defaults.
type Input struct {
	SystemMessage  string          `json:"system_message" validate:"omitempty,max=20000"`
	History        []Message       `json:"history" validate:"omitempty,max=50,dive"`
	UserMessage    string          `json:"user_message" validate:"required,max=20000"`
	Model          string          `json:"model" validate:"omitempty,max=200"`
	Params         *ModelParams    `json:"params,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// chatRequest is the wire request for POST /chat/completions.
type chatRequest struct {
	Model            string          `json:"model"`
	Messages         []Message       `json:"messages"`
	Temperature      *float64        `json:"temperature,omitempty"`
	MaxTokens        *int            `json:"max_tokens,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	Seed             *int            `json:"seed,omitempty"`
	Stop             []string        `json:"stop,omitempty"`
	ResponseFormat   *ResponseFormat `json:"response_format,omitempty"`
}

// ChatCompletion is the wire response. Error bodies share this shape and
// are parsed regardless of HTTP status.
type ChatCompletion struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []Choice       `json:"choices"`
	Usage   *Usage         `json:"usage"`
	Error   *UpstreamError `json:"error"`
}

// Choice is a single completion candidate.
type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage is the assistant message inside a choice.
type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token accounting from the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// UpstreamError is the provider's error body.
type UpstreamError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
