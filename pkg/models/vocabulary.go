package models

// Mastery levels for a vocabulary entry
const (
	MasteryLearning = "Learning"
	MasteryMastered = "Mastered"
)

// MasteryThreshold is the number of sightings after which a word counts as mastered
const MasteryThreshold = 3

// VocabularyEntry represents a German word picked up from a conversation
type VocabularyEntry struct {
	German       string `json:"german" db:"german"`
	English      string `json:"english" db:"english"`
	DateLearned  string `json:"date_learned" db:"date_learned"` // YYYY-MM-DD
	Difficulty   string `json:"difficulty" db:"difficulty"`
	Topic        string `json:"topic" db:"topic"`
	TimesSeen    int    `json:"times_seen" db:"times_seen"`
	MasteryLevel string `json:"mastery_level" db:"mastery_level"`
}

// Mastered reports whether the entry has reached the mastered state
func (v *VocabularyEntry) Mastered() bool {
	return v.MasteryLevel == MasteryMastered
}
