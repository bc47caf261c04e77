package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/example/deutschbot/pkg/models"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRefreshStreak(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want int
	}{
		{
			name: "first activity starts at one",
			days: []string{"2024-03-01"},
			want: 1,
		},
		{
			name: "consecutive days grow by one each",
			days: []string{"2024-03-01", "2024-03-02", "2024-03-03"},
			want: 3,
		},
		{
			name: "same day is a no-op",
			days: []string{"2024-03-01", "2024-03-01", "2024-03-01"},
			want: 1,
		},
		{
			name: "two day gap resets",
			days: []string{"2024-03-01", "2024-03-02", "2024-03-05"},
			want: 1,
		},
		{
			name: "reset then regrow",
			days: []string{"2024-03-01", "2024-03-04", "2024-03-05"},
			want: 2,
		},
		{
			name: "month boundary",
			days: []string{"2024-02-28", "2024-02-29", "2024-03-01"},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := New()
			for _, d := range tt.days {
				tracker.RefreshStreak(day(d))
			}
			if got := tracker.Stats().DailyStreak; got != tt.want {
				t.Errorf("DailyStreak = %d, want %d", got, tt.want)
			}
			last := tt.days[len(tt.days)-1]
			if got := tracker.Stats().LastActivity; got != last {
				t.Errorf("LastActivity = %q, want %q", got, last)
			}
		})
	}
}

func TestLevelFormula(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{900, 10},
		{1500, 10}, // capped
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d points", tt.points), func(t *testing.T) {
			tracker := New()
			tracker.AwardPoints(tt.points)
			if got := tracker.CurrentLevel(); got != tt.want {
				t.Errorf("CurrentLevel() = %d, want %d", got, tt.want)
			}
			if got := tracker.Stats().Level; got != tt.want {
				t.Errorf("stored level = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLevelUpUnlocksAchievement(t *testing.T) {
	tracker := New()
	tracker.AwardPoints(99)
	if got := tracker.EvaluateAchievements(); len(got) != 0 {
		t.Fatalf("unexpected unlocks at 99 points: %v", got)
	}

	tracker.AwardPoints(1)
	got := tracker.EvaluateAchievements()
	if len(got) != 1 || got[0] != "Level 2 Reached!" {
		t.Fatalf("unlocks = %v, want [Level 2 Reached!]", got)
	}

	// Skipping several levels at once unlocks each of them
	tracker.AwardPoints(250) // 350 total, level 4
	got = tracker.EvaluateAchievements()
	want := []string{"Level 3 Reached!", "Level 4 Reached!"}
	if len(got) != len(want) {
		t.Fatalf("unlocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("unlocks[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChatterboxUnlocksExactlyAtTen(t *testing.T) {
	tracker := New()
	for i := 0; i < 9; i++ {
		tracker.RecordMessage()
	}
	if got := tracker.EvaluateAchievements(); len(got) != 0 {
		t.Fatalf("unexpected unlocks at 9 messages: %v", got)
	}

	tracker.RecordMessage()
	got := tracker.EvaluateAchievements()
	if len(got) != 1 || got[0] != AchievementChatterbox {
		t.Fatalf("unlocks = %v, want [%s]", got, AchievementChatterbox)
	}

	// Evaluating again at the same count returns nothing
	if got := tracker.EvaluateAchievements(); len(got) != 0 {
		t.Fatalf("second evaluation returned %v, want none", got)
	}
	if !tracker.Stats().HasAchievement(AchievementChatterbox) {
		t.Fatal("achievement should stay unlocked")
	}
}

func TestThresholdAchievements(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Tracker)
		want  string
	}{
		{
			name: "vocabulary collector at 50 words",
			setup: func(tr *Tracker) {
				tr.RecordNewWords(50)
			},
			want: AchievementVocabCollector,
		},
		{
			name: "week warrior at 7 day streak",
			setup: func(tr *Tracker) {
				for i := 1; i <= 7; i++ {
					tr.RefreshStreak(day(fmt.Sprintf("2024-03-%02d", i)))
				}
			},
			want: AchievementWeekWarrior,
		},
		{
			name: "grammar master at 10 exercises",
			setup: func(tr *Tracker) {
				for i := 0; i < 10; i++ {
					tr.RecordGrammarExercise()
				}
			},
			want: AchievementGrammarMaster,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := New()
			tt.setup(tracker)
			unlocked := tracker.EvaluateAchievements()
			found := false
			for _, a := range unlocked {
				if a == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("unlocks = %v, want to contain %q", unlocked, tt.want)
			}
		})
	}
}

func TestPointCollectorIncludesLevelUnlocks(t *testing.T) {
	tracker := New()
	tracker.AwardPoints(500)
	unlocked := tracker.EvaluateAchievements()

	byName := make(map[string]bool)
	for _, a := range unlocked {
		byName[a] = true
	}
	if !byName[AchievementPointCollector] {
		t.Errorf("unlocks = %v, want Point Collector", unlocked)
	}
	for level := 2; level <= 6; level++ {
		name := fmt.Sprintf("Level %d Reached!", level)
		if !byName[name] {
			t.Errorf("unlocks = %v, missing %q", unlocked, name)
		}
	}
}

func TestNegativePointsClampAndKeepAchievements(t *testing.T) {
	tracker := New()
	tracker.AwardPoints(150)
	tracker.EvaluateAchievements()

	tracker.AwardPoints(-200)
	if got := tracker.Stats().TotalPoints; got != 0 {
		t.Errorf("TotalPoints = %d, want 0", got)
	}
	if !tracker.Stats().HasAchievement("Level 2 Reached!") {
		t.Error("unlocked achievements must never be removed")
	}
}

func TestNewFromStats(t *testing.T) {
	stats := &models.ProgressStats{TotalPoints: 230, Level: 3, DailyStreak: 4}
	tracker := NewFromStats(stats)

	if tracker.Stats().Achievements == nil {
		t.Error("achievements slice should be initialized")
	}
	if got := tracker.CurrentLevel(); got != 3 {
		t.Errorf("CurrentLevel() = %d, want 3", got)
	}
}
