package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/deutschbot/internal/ai"
	"github.com/example/deutschbot/internal/challenge"
	"github.com/example/deutschbot/pkg/models"
)

// mockClient is a scripted stand-in for the model collaborator
type mockClient struct {
	reply    string
	err      error
	requests [][]models.ConversationMessage
}

func (m *mockClient) Chat(ctx context.Context, messages []models.ConversationMessage, opts ai.Options) (string, error) {
	copied := append([]models.ConversationMessage{}, messages...)
	m.requests = append(m.requests, copied)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func fixedClock(day string) func() time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestSession(client ai.Client) *Session {
	s := New(42, client)
	s.SetClock(fixedClock("2024-03-15"))
	return s
}

func TestSubmitSuccessfulTurn(t *testing.T) {
	client := &mockClient{reply: "Guten Tag! Dein [VOCAB: Hund - dog] ist süß."}
	s := newTestSession(client)

	result, err := s.Submit(context.Background(), "Hallo!")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if result.Reply != "Guten Tag! Dein Hund ist süß." {
		t.Errorf("Reply = %q", result.Reply)
	}
	if result.NewWords != 1 {
		t.Errorf("NewWords = %d, want 1", result.NewWords)
	}

	// History keeps the raw reply, markers included
	if len(s.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(s.Messages))
	}
	if s.Messages[0].Role != models.RoleUser || s.Messages[0].Content != "Hallo!" {
		t.Errorf("first message = %+v", s.Messages[0])
	}
	if s.Messages[1].Role != models.RoleAssistant || !strings.Contains(s.Messages[1].Content, "[VOCAB:") {
		t.Errorf("second message = %+v", s.Messages[1])
	}

	stats := s.Progress.Stats()
	if stats.MessagesSent != 1 {
		t.Errorf("MessagesSent = %d, want 1", stats.MessagesSent)
	}
	// 10 for the new word, 5 for the message
	if stats.TotalPoints != 15 {
		t.Errorf("TotalPoints = %d, want 15", stats.TotalPoints)
	}
	if stats.WordsLearned != 1 {
		t.Errorf("WordsLearned = %d, want 1", stats.WordsLearned)
	}
	if stats.DailyStreak != 1 {
		t.Errorf("DailyStreak = %d, want 1", stats.DailyStreak)
	}

	if got := s.Challenges.Challenges[challenge.Conversation].Progress; got != 1 {
		t.Errorf("conversation challenge progress = %d, want 1", got)
	}
	if got := s.Challenges.Challenges[challenge.Vocabulary].Progress; got != 1 {
		t.Errorf("vocabulary challenge progress = %d, want 1", got)
	}
}

func TestSubmitSendsSystemPromptAndHistory(t *testing.T) {
	client := &mockClient{reply: "Erste Antwort."}
	s := newTestSession(client)

	if _, err := s.Submit(context.Background(), "Erste Frage"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if _, err := s.Submit(context.Background(), "Zweite Frage"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(client.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(client.requests))
	}

	second := client.requests[1]
	// system + first user + first assistant + second user
	if len(second) != 4 {
		t.Fatalf("second request has %d messages, want 4", len(second))
	}
	if second[0].Role != models.RoleSystem {
		t.Errorf("first message role = %q, want system", second[0].Role)
	}
	if !strings.Contains(second[0].Content, "[VOCAB:") {
		t.Error("system prompt should carry the vocabulary marker instruction")
	}
	if second[3].Role != models.RoleUser || second[3].Content != "Zweite Frage" {
		t.Errorf("last message = %+v", second[3])
	}
}

func TestSubmitFailureLeavesStateUntouched(t *testing.T) {
	client := &mockClient{err: errors.New("rate limited")}
	s := newTestSession(client)

	result, err := s.Submit(context.Background(), "Hallo!")
	if err == nil {
		t.Fatal("expected error from failed collaborator call")
	}
	if result.Reply != FallbackReply {
		t.Errorf("Reply = %q, want fallback", result.Reply)
	}

	stats := s.Progress.Stats()
	if stats.MessagesSent != 0 || stats.TotalPoints != 0 || stats.WordsLearned != 0 {
		t.Errorf("stats mutated on failure: %+v", stats)
	}
	if len(s.Messages) != 0 {
		t.Errorf("messages mutated on failure: %d entries", len(s.Messages))
	}
	if s.Vocabulary.Count() != 0 {
		t.Errorf("vocabulary mutated on failure: %d entries", s.Vocabulary.Count())
	}
	for i := range s.Challenges.Challenges {
		if s.Challenges.Challenges[i].Progress != 0 {
			t.Errorf("challenge %d mutated on failure", i)
		}
	}
}

func TestSubmitDetectsCorrectionKeywords(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		wantCorrection bool
		wantExercise   bool
		wantPoints     int
	}{
		{
			name:       "plain reply",
			reply:      "Das ist schön!",
			wantPoints: 5,
		},
		{
			name:           "correction keyword",
			reply:          "Kleine Korrektur: es heißt 'der Tisch'.",
			wantCorrection: true,
			wantPoints:     20, // 5 message + 15 correction
		},
		{
			name:         "exercise keyword",
			reply:        "Hier ist eine Übung für dich.",
			wantExercise: true,
			wantPoints:   25, // 5 message + 20 exercise
		},
		{
			name:           "both keywords",
			reply:          "Das war falsch. Hier ist eine Übung.",
			wantCorrection: true,
			wantExercise:   true,
			wantPoints:     40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(&mockClient{reply: tt.reply})

			result, err := s.Submit(context.Background(), "Hallo")
			if err != nil {
				t.Fatalf("Submit returned error: %v", err)
			}
			if result.HadCorrection != tt.wantCorrection {
				t.Errorf("HadCorrection = %v, want %v", result.HadCorrection, tt.wantCorrection)
			}
			if result.HadExercise != tt.wantExercise {
				t.Errorf("HadExercise = %v, want %v", result.HadExercise, tt.wantExercise)
			}
			if got := s.Progress.Stats().TotalPoints; got != tt.wantPoints {
				t.Errorf("TotalPoints = %d, want %d", got, tt.wantPoints)
			}

			grammarProgress := s.Challenges.Challenges[challenge.Grammar].Progress
			if tt.wantExercise && grammarProgress != 1 {
				t.Errorf("grammar challenge progress = %d, want 1", grammarProgress)
			}
			if !tt.wantExercise && grammarProgress != 0 {
				t.Errorf("grammar challenge progress = %d, want 0", grammarProgress)
			}
		})
	}
}

func TestSubmitReportsAchievements(t *testing.T) {
	client := &mockClient{reply: "Gut gemacht!"}
	s := newTestSession(client)

	var lastUnlocks []string
	for i := 0; i < 10; i++ {
		result, err := s.Submit(context.Background(), "Hallo")
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		lastUnlocks = result.NewUnlocks
	}

	found := false
	for _, a := range lastUnlocks {
		if a == "Chatterbox" {
			found = true
		}
	}
	if !found {
		t.Errorf("tenth turn unlocks = %v, want Chatterbox", lastUnlocks)
	}
}

func TestSubmitRollsChallengesOverOnNewDay(t *testing.T) {
	client := &mockClient{reply: "Dein [VOCAB: Hund - dog] ist toll."}
	s := newTestSession(client)

	if _, err := s.Submit(context.Background(), "Hallo"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if got := s.Challenges.Challenges[challenge.Conversation].Progress; got != 1 {
		t.Fatalf("conversation challenge progress = %d, want 1", got)
	}

	s.SetClock(fixedClock("2024-03-16"))
	if _, err := s.Submit(context.Background(), "Guten Morgen"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if s.Challenges.Date != "2024-03-16" {
		t.Errorf("challenge date = %q, want 2024-03-16", s.Challenges.Date)
	}
	// Yesterday's progress is gone, only the new day's turn counts
	if got := s.Challenges.Challenges[challenge.Conversation].Progress; got != 1 {
		t.Errorf("conversation challenge progress = %d, want 1 after rollover", got)
	}
	if got := s.Challenges.Challenges[challenge.Vocabulary].Progress; got != 0 {
		t.Errorf("vocabulary challenge progress = %d, want 0 (word already known)", got)
	}
	if got := s.Progress.Stats().DailyStreak; got != 2 {
		t.Errorf("DailyStreak = %d, want 2", got)
	}
}

func TestRecordTranslation(t *testing.T) {
	s := newTestSession(&mockClient{reply: "ok"})
	s.RecordTranslation()
	s.RecordTranslation()

	if got := s.Challenges.Challenges[challenge.Translation].Progress; got != 2 {
		t.Errorf("translation challenge progress = %d, want 2", got)
	}
}

func TestResetConversationKeepsProgress(t *testing.T) {
	s := newTestSession(&mockClient{reply: "Dein [VOCAB: Buch - book]."})
	if _, err := s.Submit(context.Background(), "Hallo"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	s.ResetConversation()

	if len(s.Messages) != 0 {
		t.Errorf("messages = %d, want 0", len(s.Messages))
	}
	if s.Vocabulary.Count() != 1 {
		t.Errorf("vocabulary = %d, want 1", s.Vocabulary.Count())
	}
	if s.Progress.Stats().TotalPoints == 0 {
		t.Error("points should survive a conversation reset")
	}
}

func TestLastAssistantReplyStripsMarkers(t *testing.T) {
	s := newTestSession(&mockClient{reply: "Dein [VOCAB: Buch - book] ist hier."})
	if _, err := s.Submit(context.Background(), "Hallo"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if got := s.LastAssistantReply(); got != "Dein Buch ist hier." {
		t.Errorf("LastAssistantReply = %q", got)
	}
}
