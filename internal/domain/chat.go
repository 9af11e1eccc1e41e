package domain

// ChatMessage is the provider-agnostic chat message shape used by the usecase
// and LLM integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest describes a single chat completion call.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature *float64
	MaxTokens   int
	Schema      *OutputSchema
}

// OutputSchema is a named JSON schema the model output must conform to.
type OutputSchema struct {
	Name   string
	Schema []byte
}
