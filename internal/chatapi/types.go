package chatapi

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one message in a conversation. Immutable once created.
type Message struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}

// ToolCall reports one tool the agent invoked while answering, with its
// outcome. Display-only: the client never persists these.
type ToolCall struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Result    ToolResult     `json:"result"`
}

// ToolResult is the outcome of a tool call.
type ToolResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatRequest is the payload for sending a message. A nil ConversationID
// starts a new conversation.
type ChatRequest struct {
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// ChatResponse is the agent's reply.
type ChatResponse struct {
	ConversationID int64      `json:"conversation_id"`
	Response       string     `json:"response"`
	ToolCalls      []ToolCall `json:"tool_calls"`
	ResponseTime   float64    `json:"response_time"`
}

// Conversation is a summary row for the sidebar. The message count is
// server-derived.
type Conversation struct {
	ID           int64  `json:"id"`
	UserID       string `json:"user_id"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int    `json:"message_count"`
}
