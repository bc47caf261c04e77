package session

import (
	"context"
	"strings"
	"time"

	"github.com/example/deutschbot/internal/ai"
	"github.com/example/deutschbot/internal/challenge"
	"github.com/example/deutschbot/internal/progress"
	"github.com/example/deutschbot/internal/vocabulary"
	"github.com/example/deutschbot/pkg/models"
)

// FallbackReply is returned when the model collaborator fails. The session
// state is left untouched in that case.
const FallbackReply = "Entschuldigung, es gab einen Fehler. Bitte versuchen Sie es erneut."

// Generation parameters for conversation turns
const (
	chatTemperature = 0.7
	chatMaxTokens   = 400
)

// correctionKeywords mark an assistant reply that contains a grammar correction
var correctionKeywords = []string{"korrektur", "fehler", "richtig", "falsch"}

// exerciseKeywords mark an assistant reply that contains a grammar exercise
var exerciseKeywords = []string{"übung", "exercise"}

// Result describes the outcome of one successful conversation turn
type Result struct {
	Reply         string   // display text, markers stripped
	NewWords      int      // vocabulary terms learned this turn
	NewUnlocks    []string // achievements unlocked this turn
	HadCorrection bool
	HadExercise   bool
}

// Session owns one user's conversation state: message history, vocabulary
// store, progress tracker and daily challenges. One Submit call is in flight
// at a time; the caller serializes access per user.
type Session struct {
	ChatID     int64
	Settings   models.Settings
	Messages   []models.ConversationMessage
	Vocabulary *vocabulary.Store
	Progress   *progress.Tracker
	Challenges *challenge.Set

	client ai.Client
	now    func() time.Time
}

// New creates a session for a chat with default settings and fresh state
func New(chatID int64, client ai.Client) *Session {
	s := &Session{
		ChatID:     chatID,
		Settings:   models.DefaultSettings(),
		Vocabulary: vocabulary.NewStore(),
		Progress:   progress.New(),
		client:     client,
		now:        time.Now,
	}
	s.Challenges = challenge.NewSet(s.now())
	return s
}

// SetClock overrides the session clock, used by tests
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// Submit runs one conversation turn: it sends the system instruction, the
// prior history and the new user message to the model, then applies the
// turn's bookkeeping. If the model call fails no state is mutated and the
// returned result carries the fallback reply.
func (s *Session) Submit(ctx context.Context, userText string) (*Result, error) {
	request := make([]models.ConversationMessage, 0, len(s.Messages)+2)
	request = append(request, models.ConversationMessage{
		Role:    models.RoleSystem,
		Content: BuildSystemPrompt(s.Settings),
	})
	request = append(request, s.Messages...)
	request = append(request, models.ConversationMessage{
		Role:    models.RoleUser,
		Content: userText,
	})

	reply, err := s.client.Chat(ctx, request, ai.Options{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return &Result{Reply: FallbackReply}, err
	}

	today := s.now()
	s.Progress.RefreshStreak(today)
	s.Challenges.EnsureFresh(today)

	s.Messages = append(s.Messages,
		models.ConversationMessage{Role: models.RoleUser, Content: userText},
		models.ConversationMessage{Role: models.RoleAssistant, Content: reply},
	)

	display, newWords := s.Vocabulary.Extract(reply, vocabulary.Context{
		Difficulty: s.Settings.Difficulty,
		Topic:      s.Settings.Topic,
	}, today, s.Progress)
	s.Progress.RecordNewWords(newWords)
	if newWords > 0 {
		s.Challenges.Increment(challenge.Vocabulary, newWords)
	}

	s.Progress.RecordMessage()
	s.Progress.AwardPoints(progress.MessagePoints)
	s.Challenges.Increment(challenge.Conversation, 1)

	result := &Result{Reply: display, NewWords: newWords}

	lower := strings.ToLower(reply)
	if containsAny(lower, correctionKeywords) {
		s.Progress.RecordCorrection()
		s.Progress.AwardPoints(progress.CorrectionPoints)
		result.HadCorrection = true
	}
	if containsAny(lower, exerciseKeywords) {
		s.Progress.RecordGrammarExercise()
		s.Progress.AwardPoints(progress.ExercisePoints)
		s.Challenges.Increment(challenge.Grammar, 1)
		result.HadExercise = true
	}

	result.NewUnlocks = s.Progress.EvaluateAchievements()
	return result, nil
}

// RecordTranslation counts one use of the translation tool toward the
// Translation Expert challenge.
func (s *Session) RecordTranslation() {
	s.Challenges.EnsureFresh(s.now())
	s.Challenges.Increment(challenge.Translation, 1)
}

// LastAssistantReply returns the most recent assistant message with vocabulary
// markers stripped, or an empty string when there is none.
func (s *Session) LastAssistantReply() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == models.RoleAssistant {
			return vocabulary.StripMarkers(s.Messages[i].Content)
		}
	}
	return ""
}

// ResetConversation clears the message history only; vocabulary, stats and
// challenges are kept.
func (s *Session) ResetConversation() {
	s.Messages = nil
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
