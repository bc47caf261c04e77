package quiz

import (
	"fmt"
	"math/rand"

	"github.com/example/deutschbot/pkg/models"
)

// Point awards for quiz answers
const (
	CorrectPoints     = 25
	ConsolationPoints = 5
)

// MinEntries is the smallest vocabulary size a quiz can be built from
const MinEntries = 3

const distractorCount = 3

// Question is a single multiple-choice vocabulary question
type Question struct {
	German       string   // the word being tested
	Topic        string
	Difficulty   string
	Options      []string // possible English translations
	CorrectIndex int      // index of the correct answer in Options
}

// Check reports whether the chosen option is the correct translation
func (q *Question) Check(choice int) bool {
	return choice == q.CorrectIndex
}

// Answer returns the correct translation
func (q *Question) Answer() string {
	return q.Options[q.CorrectIndex]
}

// BuildQuestion picks a random vocabulary entry and builds a multiple-choice
// question around it, drawing distractors from the other entries. It needs at
// least MinEntries distinct entries to work with.
func BuildQuestion(entries []models.VocabularyEntry, rnd *rand.Rand) (*Question, error) {
	if len(entries) < MinEntries {
		return nil, fmt.Errorf("need at least %d vocabulary entries for a quiz, have %d", MinEntries, len(entries))
	}

	target := entries[rnd.Intn(len(entries))]

	// Collect distractors from other entries, skipping duplicate translations
	var wrong []string
	seen := map[string]bool{target.English: true}
	for _, e := range entries {
		if seen[e.English] {
			continue
		}
		seen[e.English] = true
		wrong = append(wrong, e.English)
	}
	if len(wrong) == 0 {
		return nil, fmt.Errorf("not enough distinct translations for a quiz")
	}

	rnd.Shuffle(len(wrong), func(i, j int) {
		wrong[i], wrong[j] = wrong[j], wrong[i]
	})
	if len(wrong) > distractorCount {
		wrong = wrong[:distractorCount]
	}

	options := append(wrong, target.English)
	correctIndex := len(options) - 1

	rnd.Shuffle(len(options), func(i, j int) {
		if i == correctIndex {
			correctIndex = j
		} else if j == correctIndex {
			correctIndex = i
		}
		options[i], options[j] = options[j], options[i]
	})

	return &Question{
		German:       target.German,
		Topic:        target.Topic,
		Difficulty:   target.Difficulty,
		Options:      options,
		CorrectIndex: correctIndex,
	}, nil
}
