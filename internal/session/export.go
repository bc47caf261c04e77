package session

import (
	"fmt"

	"github.com/example/deutschbot/internal/export"
	"github.com/example/deutschbot/pkg/models"
)

// Export serializes the full session state as a JSON document
func (s *Session) Export() ([]byte, error) {
	settings := s.Settings
	return export.Marshal(export.Document{
		Messages:        append([]models.ConversationMessage{}, s.Messages...),
		Vocabulary:      s.Vocabulary.Entries(),
		Stats:           s.Progress.Stats(),
		DailyChallenges: s.Challenges.Challenges,
		Settings:        &settings,
	}, s.now())
}

// ApplyImport merges a previously exported document into the session.
// Messages, vocabulary and challenges replace local state wholesale when the
// document carries them; stats and settings overwrite field-wise; sections the
// document is missing leave local state untouched.
func (s *Session) ApplyImport(data []byte) error {
	parsed, err := export.Parse(data)
	if err != nil {
		return err
	}

	if parsed.Messages != nil {
		s.Messages = *parsed.Messages
	}
	if parsed.Vocabulary != nil {
		s.Vocabulary.Replace(*parsed.Vocabulary)
		s.Progress.Stats().WordsLearned = s.Vocabulary.Count()
	}
	if err := s.Progress.ApplyImport(parsed.ApplyStats); err != nil {
		return fmt.Errorf("failed to import stats: %v", err)
	}
	if parsed.DailyChallenges != nil {
		s.Challenges.Replace(*parsed.DailyChallenges)
	}
	if err := parsed.ApplySettings(&s.Settings); err != nil {
		return fmt.Errorf("failed to import settings: %v", err)
	}
	return nil
}
