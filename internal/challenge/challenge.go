package challenge

import (
	"time"

	"github.com/example/deutschbot/pkg/models"
)

// Positional indexes into the daily challenge catalog
const (
	Vocabulary = iota
	Conversation
	Grammar
	Translation
)

const dateLayout = "2006-01-02"

// Set is one day's challenges together with the date they were generated for.
// Challenges reset keyed by calendar date, not by session start.
type Set struct {
	Date       string                  `json:"date"`
	Challenges []models.DailyChallenge `json:"challenges"`
}

// Catalog returns the fixed daily challenge catalog with zero progress
func Catalog() []models.DailyChallenge {
	return []models.DailyChallenge{
		{Name: "Vocabulary Master", Description: "Learn 5 new words", Target: 5, Progress: 0, Points: 50},
		{Name: "Conversation Starter", Description: "Send 10 messages", Target: 10, Progress: 0, Points: 30},
		{Name: "Grammar Guru", Description: "Complete 3 grammar exercises", Target: 3, Progress: 0, Points: 40},
		{Name: "Translation Expert", Description: "Use translation 5 times", Target: 5, Progress: 0, Points: 35},
	}
}

// NewSet generates the catalog for the given day
func NewSet(today time.Time) *Set {
	return &Set{
		Date:       today.Format(dateLayout),
		Challenges: Catalog(),
	}
}

// EnsureFresh regenerates the catalog when the stored date is not today.
// Returns true when a reset happened.
func (s *Set) EnsureFresh(today time.Time) bool {
	day := today.Format(dateLayout)
	if s.Date == day && len(s.Challenges) == len(Catalog()) {
		return false
	}
	s.Date = day
	s.Challenges = Catalog()
	return true
}

// Increment adds n to the progress of the challenge at the given index.
// Progress is stored uncapped; completion is derived from the target.
func (s *Set) Increment(index, n int) {
	if index < 0 || index >= len(s.Challenges) || n <= 0 {
		return
	}
	s.Challenges[index].Progress += n
}

// CompletedPoints sums the reward points of all completed challenges
func (s *Set) CompletedPoints() int {
	total := 0
	for i := range s.Challenges {
		if s.Challenges[i].Completed() {
			total += s.Challenges[i].Points
		}
	}
	return total
}

// TotalPoints sums the reward points of the whole catalog
func (s *Set) TotalPoints() int {
	total := 0
	for i := range s.Challenges {
		total += s.Challenges[i].Points
	}
	return total
}

// Replace swaps the challenge list wholesale, used by data import
func (s *Set) Replace(challenges []models.DailyChallenge) {
	s.Challenges = challenges
}
