package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/deutschbot/pkg/models"
)

// StatsRepository handles database operations for progress stats
type StatsRepository struct{}

// NewStatsRepository creates a new repository instance
func NewStatsRepository() *StatsRepository {
	return &StatsRepository{}
}

type statsRow struct {
	ChatID                    int64  `db:"chat_id"`
	MessagesSent              int    `db:"messages_sent"`
	WordsLearned              int    `db:"words_learned"`
	CorrectionsMade           int    `db:"corrections_made"`
	GrammarExercisesCompleted int    `db:"grammar_exercises_completed"`
	DailyStreak               int    `db:"daily_streak"`
	TotalPoints               int    `db:"total_points"`
	Level                     int    `db:"level"`
	Achievements              string `db:"achievements"`
	LastActivity              string `db:"last_activity"`
}

// Get returns the stored stats for a chat, or nil when none exist yet
func (r *StatsRepository) Get(chatID int64) (*models.ProgressStats, error) {
	var row statsRow
	err := DB.Get(&row, "SELECT * FROM progress_stats WHERE chat_id = $1", chatID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %v", err)
	}

	stats := &models.ProgressStats{
		MessagesSent:              row.MessagesSent,
		WordsLearned:              row.WordsLearned,
		CorrectionsMade:           row.CorrectionsMade,
		GrammarExercisesCompleted: row.GrammarExercisesCompleted,
		DailyStreak:               row.DailyStreak,
		TotalPoints:               row.TotalPoints,
		Level:                     row.Level,
		LastActivity:              row.LastActivity,
		Achievements:              []string{},
	}
	if row.Achievements != "" {
		if err := json.Unmarshal([]byte(row.Achievements), &stats.Achievements); err != nil {
			return nil, fmt.Errorf("failed to decode achievements: %v", err)
		}
	}
	return stats, nil
}

// Save upserts the stats for a chat
func (r *StatsRepository) Save(chatID int64, stats *models.ProgressStats) error {
	achievements, err := json.Marshal(stats.Achievements)
	if err != nil {
		return fmt.Errorf("failed to encode achievements: %v", err)
	}

	_, err = DB.Exec(`
		INSERT INTO progress_stats (
			chat_id, messages_sent, words_learned, corrections_made,
			grammar_exercises_completed, daily_streak, total_points, level,
			achievements, last_activity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (chat_id) DO UPDATE SET
			messages_sent = EXCLUDED.messages_sent,
			words_learned = EXCLUDED.words_learned,
			corrections_made = EXCLUDED.corrections_made,
			grammar_exercises_completed = EXCLUDED.grammar_exercises_completed,
			daily_streak = EXCLUDED.daily_streak,
			total_points = EXCLUDED.total_points,
			level = EXCLUDED.level,
			achievements = EXCLUDED.achievements,
			last_activity = EXCLUDED.last_activity
	`,
		chatID,
		stats.MessagesSent,
		stats.WordsLearned,
		stats.CorrectionsMade,
		stats.GrammarExercisesCompleted,
		stats.DailyStreak,
		stats.TotalPoints,
		stats.Level,
		string(achievements),
		stats.LastActivity,
	)
	if err != nil {
		return fmt.Errorf("failed to save stats: %v", err)
	}
	return nil
}
