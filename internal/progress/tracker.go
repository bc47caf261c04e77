package progress

import (
	"fmt"
	"time"

	"github.com/example/deutschbot/pkg/models"
)

// Point awards for tracked events
const (
	MessagePoints    = 5
	CorrectionPoints = 15
	ExercisePoints   = 20
)

// Achievement thresholds
const (
	chatterboxMessages   = 10
	collectorWords       = 50
	weekWarriorStreak    = 7
	grammarMasterCount   = 10
	pointCollectorPoints = 500
)

// Achievement names
const (
	AchievementChatterbox     = "Chatterbox"
	AchievementVocabCollector = "Vocabulary Collector"
	AchievementWeekWarrior    = "Week Warrior"
	AchievementGrammarMaster  = "Grammar Master"
	AchievementPointCollector = "Point Collector"
)

const dateLayout = "2006-01-02"

// Tracker owns a user's progress stats: streak, points, level and achievements.
// Level is always derived from total points and never set independently.
type Tracker struct {
	stats   *models.ProgressStats
	pending []string
}

// New creates a tracker with fresh stats
func New() *Tracker {
	return &Tracker{
		stats: &models.ProgressStats{
			Level:        1,
			Achievements: []string{},
		},
	}
}

// NewFromStats creates a tracker around previously saved stats
func NewFromStats(stats *models.ProgressStats) *Tracker {
	if stats == nil {
		return New()
	}
	if stats.Achievements == nil {
		stats.Achievements = []string{}
	}
	if stats.Level < 1 {
		stats.Level = 1
	}
	return &Tracker{stats: stats}
}

// Stats returns the underlying stats record
func (t *Tracker) Stats() *models.ProgressStats {
	return t.stats
}

// RecordMessage increments the sent message counter
func (t *Tracker) RecordMessage() {
	t.stats.MessagesSent++
}

// RecordNewWords bumps the learned word counter by n
func (t *Tracker) RecordNewWords(n int) {
	if n > 0 {
		t.stats.WordsLearned += n
	}
}

// RecordCorrection notes a grammar correction in the assistant reply
func (t *Tracker) RecordCorrection() {
	t.stats.CorrectionsMade++
}

// RecordGrammarExercise notes a completed grammar exercise
func (t *Tracker) RecordGrammarExercise() {
	t.stats.GrammarExercisesCompleted++
}

// AwardPoints adds n to the point total and recomputes the level.
// Crossing into a new level unlocks a level achievement per level reached.
// Negative n is accepted for administrative corrections; the point total is
// clamped at zero and already unlocked achievements are kept.
func (t *Tracker) AwardPoints(n int) {
	t.stats.TotalPoints += n
	if t.stats.TotalPoints < 0 {
		t.stats.TotalPoints = 0
	}

	newLevel := models.LevelForPoints(t.stats.TotalPoints)
	for level := t.stats.Level + 1; level <= newLevel; level++ {
		t.unlock(fmt.Sprintf("Level %d Reached!", level))
	}
	t.stats.Level = newLevel
}

// CurrentLevel returns the level derived from the current point total
func (t *Tracker) CurrentLevel() int {
	return models.LevelForPoints(t.stats.TotalPoints)
}

// RefreshStreak updates the daily streak for the given day. The same day is a
// no-op, the day after the last activity extends the streak by one, anything
// else (first activity, a gap, a clock jump) resets it to one. Safe to call on
// every turn; the same-day guard keeps it from double counting.
func (t *Tracker) RefreshStreak(today time.Time) {
	day := today.Format(dateLayout)
	if t.stats.LastActivity == day {
		return
	}

	yesterday := today.AddDate(0, 0, -1).Format(dateLayout)
	if t.stats.LastActivity == yesterday {
		t.stats.DailyStreak++
	} else {
		t.stats.DailyStreak = 1
	}
	t.stats.LastActivity = day
}

// EvaluateAchievements runs the fixed threshold checks and returns every
// achievement unlocked since the previous call, level achievements included.
// Checking an already unlocked achievement is a no-op.
func (t *Tracker) EvaluateAchievements() []string {
	if t.stats.MessagesSent >= chatterboxMessages {
		t.unlock(AchievementChatterbox)
	}
	if t.stats.WordsLearned >= collectorWords {
		t.unlock(AchievementVocabCollector)
	}
	if t.stats.DailyStreak >= weekWarriorStreak {
		t.unlock(AchievementWeekWarrior)
	}
	if t.stats.GrammarExercisesCompleted >= grammarMasterCount {
		t.unlock(AchievementGrammarMaster)
	}
	if t.stats.TotalPoints >= pointCollectorPoints {
		t.unlock(AchievementPointCollector)
	}

	unlocked := t.pending
	t.pending = nil
	return unlocked
}

func (t *Tracker) unlock(name string) {
	if t.stats.HasAchievement(name) {
		return
	}
	t.stats.Achievements = append(t.stats.Achievements, name)
	t.pending = append(t.pending, name)
}

// ApplyImport overwrites matching fields from an imported stats record,
// leaving fields the import did not carry untouched. The level is recomputed
// from the imported point total afterwards.
func (t *Tracker) ApplyImport(apply func(*models.ProgressStats) error) error {
	if err := apply(t.stats); err != nil {
		return err
	}
	if t.stats.Achievements == nil {
		t.stats.Achievements = []string{}
	}
	t.stats.Level = models.LevelForPoints(t.stats.TotalPoints)
	return nil
}
