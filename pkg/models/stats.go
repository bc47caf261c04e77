package models

// MaxLevel is the highest level a user can reach
const MaxLevel = 10

// PointsPerLevel is the number of points needed to advance one level
const PointsPerLevel = 100

// ProgressStats tracks a user's learning progress and gamification state
type ProgressStats struct {
	MessagesSent              int      `json:"messages_sent" db:"messages_sent"`
	WordsLearned              int      `json:"words_learned" db:"words_learned"`
	CorrectionsMade           int      `json:"corrections_made" db:"corrections_made"`
	GrammarExercisesCompleted int      `json:"grammar_exercises_completed" db:"grammar_exercises_completed"`
	DailyStreak               int      `json:"daily_streak" db:"daily_streak"`
	TotalPoints               int      `json:"total_points" db:"total_points"`
	Level                     int      `json:"level" db:"level"`
	Achievements              []string `json:"achievements"`
	LastActivity              string   `json:"last_activity" db:"last_activity"` // YYYY-MM-DD
}

// LevelForPoints computes the level for a given point total
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	level := points/PointsPerLevel + 1
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

// HasAchievement reports whether the named achievement is already unlocked
func (s *ProgressStats) HasAchievement(name string) bool {
	for _, a := range s.Achievements {
		if a == name {
			return true
		}
	}
	return false
}
