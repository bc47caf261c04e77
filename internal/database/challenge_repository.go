package database

import (
	"fmt"

	"github.com/example/deutschbot/pkg/models"
)

// ChallengeRepository handles database operations for daily challenge sets
type ChallengeRepository struct{}

// NewChallengeRepository creates a new repository instance
func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{}
}

type challengeRow struct {
	ChatID        int64  `db:"chat_id"`
	Idx           int    `db:"idx"`
	ChallengeDate string `db:"challenge_date"`
	Name          string `db:"name"`
	Description   string `db:"description"`
	Target        int    `db:"target"`
	Progress      int    `db:"progress"`
	Points        int    `db:"points"`
}

// GetSet returns the stored challenge set and its generation date for a chat.
// An empty date means no set has been stored yet.
func (r *ChallengeRepository) GetSet(chatID int64) (string, []models.DailyChallenge, error) {
	var rows []challengeRow
	err := DB.Select(&rows, "SELECT * FROM daily_challenges WHERE chat_id = $1 ORDER BY idx ASC", chatID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get challenges: %v", err)
	}
	if len(rows) == 0 {
		return "", nil, nil
	}

	challenges := make([]models.DailyChallenge, 0, len(rows))
	for _, row := range rows {
		challenges = append(challenges, models.DailyChallenge{
			Name:        row.Name,
			Description: row.Description,
			Target:      row.Target,
			Progress:    row.Progress,
			Points:      row.Points,
		})
	}
	return rows[0].ChallengeDate, challenges, nil
}

// SaveSet replaces the stored challenge set for a chat
func (r *ChallengeRepository) SaveSet(chatID int64, date string, challenges []models.DailyChallenge) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM daily_challenges WHERE chat_id = $1", chatID); err != nil {
		return fmt.Errorf("failed to clear challenges: %v", err)
	}

	for i, c := range challenges {
		_, err := tx.Exec(`
			INSERT INTO daily_challenges (
				chat_id, idx, challenge_date, name, description, target, progress, points
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, chatID, i, date, c.Name, c.Description, c.Target, c.Progress, c.Points)
		if err != nil {
			return fmt.Errorf("failed to insert challenge %q: %v", c.Name, err)
		}
	}

	return tx.Commit()
}

// DeleteStale removes every stored challenge set generated before the given
// date. Fresh sets regenerate lazily on the next activity.
func (r *ChallengeRepository) DeleteStale(date string) (int64, error) {
	result, err := DB.Exec("DELETE FROM daily_challenges WHERE challenge_date <> $1", date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale challenges: %v", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted challenges: %v", err)
	}
	return n, nil
}
