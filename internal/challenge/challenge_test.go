package challenge

import (
	"testing"
	"time"
)

var (
	march1 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	march2 = time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
)

func TestCatalog(t *testing.T) {
	tests := []struct {
		index  int
		name   string
		target int
		points int
	}{
		{Vocabulary, "Vocabulary Master", 5, 50},
		{Conversation, "Conversation Starter", 10, 30},
		{Grammar, "Grammar Guru", 3, 40},
		{Translation, "Translation Expert", 5, 35},
	}

	catalog := Catalog()
	if len(catalog) != len(tests) {
		t.Fatalf("catalog size = %d, want %d", len(catalog), len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := catalog[tt.index]
			if c.Name != tt.name {
				t.Errorf("name = %q, want %q", c.Name, tt.name)
			}
			if c.Target != tt.target {
				t.Errorf("target = %d, want %d", c.Target, tt.target)
			}
			if c.Points != tt.points {
				t.Errorf("points = %d, want %d", c.Points, tt.points)
			}
			if c.Progress != 0 {
				t.Errorf("progress = %d, want 0", c.Progress)
			}
		})
	}
}

func TestIncrementAndCompletion(t *testing.T) {
	set := NewSet(march1)

	set.Increment(Grammar, 1)
	set.Increment(Grammar, 1)
	if set.Challenges[Grammar].Completed() {
		t.Fatal("should not be complete at 2/3")
	}

	set.Increment(Grammar, 1)
	if !set.Challenges[Grammar].Completed() {
		t.Fatal("should be complete at 3/3")
	}

	// Progress is stored uncapped, display is capped
	set.Increment(Grammar, 2)
	if got := set.Challenges[Grammar].Progress; got != 5 {
		t.Errorf("Progress = %d, want 5", got)
	}
	if got := set.Challenges[Grammar].CappedProgress(); got != 3 {
		t.Errorf("CappedProgress = %d, want 3", got)
	}
}

func TestIncrementIgnoresBadInput(t *testing.T) {
	set := NewSet(march1)
	set.Increment(-1, 1)
	set.Increment(99, 1)
	set.Increment(Vocabulary, 0)
	set.Increment(Vocabulary, -3)

	for i := range set.Challenges {
		if set.Challenges[i].Progress != 0 {
			t.Errorf("challenge %d progress = %d, want 0", i, set.Challenges[i].Progress)
		}
	}
}

func TestEnsureFreshResetsOnNewDate(t *testing.T) {
	set := NewSet(march1)
	set.Increment(Conversation, 4)

	if set.EnsureFresh(march1) {
		t.Fatal("same day should not reset")
	}
	if got := set.Challenges[Conversation].Progress; got != 4 {
		t.Fatalf("progress lost on same-day refresh: %d", got)
	}

	if !set.EnsureFresh(march2) {
		t.Fatal("new day should reset")
	}
	if got := set.Challenges[Conversation].Progress; got != 0 {
		t.Errorf("progress = %d after reset, want 0", got)
	}
	if set.Date != "2024-03-02" {
		t.Errorf("Date = %q, want 2024-03-02", set.Date)
	}
}

func TestCompletedPoints(t *testing.T) {
	set := NewSet(march1)
	if got := set.CompletedPoints(); got != 0 {
		t.Fatalf("CompletedPoints = %d, want 0", got)
	}

	set.Increment(Grammar, 3)
	set.Increment(Translation, 5)
	if got := set.CompletedPoints(); got != 75 {
		t.Errorf("CompletedPoints = %d, want 75", got)
	}
	if got := set.TotalPoints(); got != 155 {
		t.Errorf("TotalPoints = %d, want 155", got)
	}
}
