package database

import (
	"fmt"

	"github.com/example/deutschbot/pkg/models"
)

// VocabularyRepository handles database operations for vocabulary entries
type VocabularyRepository struct{}

// NewVocabularyRepository creates a new repository instance
func NewVocabularyRepository() *VocabularyRepository {
	return &VocabularyRepository{}
}

// GetByChat returns all vocabulary entries for a chat in learned order
func (r *VocabularyRepository) GetByChat(chatID int64) ([]models.VocabularyEntry, error) {
	var entries []models.VocabularyEntry
	err := DB.Select(&entries, `
		SELECT german, english, date_learned, difficulty, topic, times_seen, mastery_level
		FROM vocabulary_entries
		WHERE chat_id = $1
		ORDER BY position ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary: %v", err)
	}
	return entries, nil
}

// ReplaceForChat replaces the stored vocabulary for a chat wholesale
func (r *VocabularyRepository) ReplaceForChat(chatID int64, entries []models.VocabularyEntry) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM vocabulary_entries WHERE chat_id = $1", chatID); err != nil {
		return fmt.Errorf("failed to clear vocabulary: %v", err)
	}

	for i, entry := range entries {
		_, err := tx.Exec(`
			INSERT INTO vocabulary_entries (
				chat_id, german, english, date_learned, difficulty, topic,
				times_seen, mastery_level, position
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			chatID,
			entry.German,
			entry.English,
			entry.DateLearned,
			entry.Difficulty,
			entry.Topic,
			entry.TimesSeen,
			entry.MasteryLevel,
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert vocabulary entry %q: %v", entry.German, err)
		}
	}

	return tx.Commit()
}
