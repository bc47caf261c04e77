package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/deutschbot/pkg/models"
)

// SettingsRepository handles database operations for user settings
type SettingsRepository struct{}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// Get returns the stored settings for a chat, or nil when none exist yet
func (r *SettingsRepository) Get(chatID int64) (*models.Settings, error) {
	var raw string
	err := DB.Get(&raw, "SELECT settings FROM user_settings WHERE chat_id = $1", chatID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %v", err)
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %v", err)
	}
	return &settings, nil
}

// Save upserts the settings for a chat
func (r *SettingsRepository) Save(chatID int64, settings models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %v", err)
	}

	_, err = DB.Exec(`
		INSERT INTO user_settings (chat_id, settings) VALUES ($1, $2)
		ON CONFLICT (chat_id) DO UPDATE SET settings = EXCLUDED.settings
	`, chatID, string(raw))
	if err != nil {
		return fmt.Errorf("failed to save settings: %v", err)
	}
	return nil
}
