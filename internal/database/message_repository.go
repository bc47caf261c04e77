package database

import (
	"fmt"

	"github.com/example/deutschbot/pkg/models"
)

// MessageRepository handles database operations for conversation history
type MessageRepository struct{}

// NewMessageRepository creates a new repository instance
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// GetByChat returns the conversation history for a chat in order
func (r *MessageRepository) GetByChat(chatID int64) ([]models.ConversationMessage, error) {
	var messages []models.ConversationMessage
	err := DB.Select(&messages, `
		SELECT role, content FROM conversation_messages
		WHERE chat_id = $1
		ORDER BY position ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %v", err)
	}
	return messages, nil
}

// ReplaceForChat replaces the stored conversation history for a chat wholesale
func (r *MessageRepository) ReplaceForChat(chatID int64, messages []models.ConversationMessage) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM conversation_messages WHERE chat_id = $1", chatID); err != nil {
		return fmt.Errorf("failed to clear messages: %v", err)
	}

	for i, m := range messages {
		_, err := tx.Exec(`
			INSERT INTO conversation_messages (chat_id, position, role, content)
			VALUES ($1, $2, $3, $4)
		`, chatID, i, m.Role, m.Content)
		if err != nil {
			return fmt.Errorf("failed to insert message %d: %v", i, err)
		}
	}

	return tx.Commit()
}
