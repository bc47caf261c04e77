package models

// Conversation roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one role-tagged message in the conversation history
type ConversationMessage struct {
	Role    string `json:"role" db:"role"`
	Content string `json:"content" db:"content"`
}
