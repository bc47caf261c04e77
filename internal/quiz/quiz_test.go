package quiz

import (
	"math/rand"
	"testing"

	"github.com/example/deutschbot/pkg/models"
)

func entriesFor(pairs [][2]string) []models.VocabularyEntry {
	out := make([]models.VocabularyEntry, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, models.VocabularyEntry{
			German:     p[0],
			English:    p[1],
			Difficulty: models.DifficultyIntermediate,
			Topic:      "Free conversation",
		})
	}
	return out
}

func TestBuildQuestionNeedsMinimumEntries(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	entries := entriesFor([][2]string{
		{"Hund", "dog"},
		{"Katze", "cat"},
	})
	if _, err := BuildQuestion(entries, rnd); err == nil {
		t.Error("expected error with fewer entries than the minimum")
	}

	entries = append(entries, models.VocabularyEntry{German: "Buch", English: "book"})
	if _, err := BuildQuestion(entries, rnd); err != nil {
		t.Errorf("unexpected error at the minimum: %v", err)
	}
}

func TestBuildQuestionOptionsAreConsistent(t *testing.T) {
	entries := entriesFor([][2]string{
		{"Hund", "dog"},
		{"Katze", "cat"},
		{"Buch", "book"},
		{"Haus", "house"},
		{"Apfel", "apple"},
		{"Tisch", "table"},
	})

	translations := map[string]string{}
	for _, e := range entries {
		translations[e.German] = e.English
	}

	// Seeds vary the target and the shuffles; the invariants must hold for all
	for seed := int64(0); seed < 50; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		q, err := BuildQuestion(entries, rnd)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		if len(q.Options) != 4 {
			t.Fatalf("seed %d: %d options, want 4", seed, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			t.Fatalf("seed %d: correct index %d out of range", seed, q.CorrectIndex)
		}
		if got, want := q.Answer(), translations[q.German]; got != want {
			t.Errorf("seed %d: answer for %q = %q, want %q", seed, q.German, got, want)
		}

		seen := map[string]bool{}
		for _, opt := range q.Options {
			if seen[opt] {
				t.Errorf("seed %d: duplicate option %q", seed, opt)
			}
			seen[opt] = true
		}
	}
}

func TestBuildQuestionRejectsAllIdenticalTranslations(t *testing.T) {
	entries := entriesFor([][2]string{
		{"rennen", "to run"},
		{"laufen", "to run"},
		{"joggen", "to run"},
	})

	rnd := rand.New(rand.NewSource(1))
	if _, err := BuildQuestion(entries, rnd); err == nil {
		t.Error("expected error when no distinct distractor exists")
	}
}

func TestBuildQuestionFewDistractors(t *testing.T) {
	entries := entriesFor([][2]string{
		{"Hund", "dog"},
		{"Katze", "cat"},
		{"Buch", "book"},
	})

	rnd := rand.New(rand.NewSource(7))
	q, err := BuildQuestion(entries, rnd)
	if err != nil {
		t.Fatalf("BuildQuestion returned error: %v", err)
	}
	if len(q.Options) != 3 {
		t.Errorf("options = %d, want 3 with only two distractors available", len(q.Options))
	}
}

func TestCheck(t *testing.T) {
	q := &Question{
		German:       "Hund",
		Options:      []string{"cat", "dog", "house"},
		CorrectIndex: 1,
	}

	if !q.Check(1) {
		t.Error("Check(1) should be true")
	}
	if q.Check(0) || q.Check(2) {
		t.Error("wrong choices should not pass")
	}
	if q.Answer() != "dog" {
		t.Errorf("Answer = %q, want dog", q.Answer())
	}
}
