package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Timeout for long polling updates, in seconds
	UpdateTimeout int
	// Timeout applied to one model collaborator call
	ChatTimeout time.Duration
	// Timeout applied to translation and speech calls
	ToolTimeout time.Duration
	// Maximum vocabulary entries listed by the /vocab command
	VocabPageSize int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout: 60,
		ChatTimeout:   90 * time.Second,
		ToolTimeout:   15 * time.Second,
		VocabPageSize: 15,
	}
}
