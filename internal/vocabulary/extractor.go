package vocabulary

import (
	"regexp"
	"strings"
	"time"

	"github.com/example/deutschbot/pkg/models"
)

// NewTermPoints is the point bonus awarded for every new vocabulary term
const NewTermPoints = 10

// markerPattern matches the fixed [VOCAB: german - english] marker convention
// the model uses to flag new vocabulary in its replies. Bracketed text that
// does not match (missing hyphen or closing bracket) passes through untouched.
var markerPattern = regexp.MustCompile(`\[VOCAB: ([^-]+) - ([^\]]+)\]`)

// PointSink receives point bonuses earned during extraction
type PointSink interface {
	AwardPoints(n int)
}

// Context carries the conversation settings a new entry is tagged with
type Context struct {
	Difficulty string
	Topic      string
}

// Store holds the vocabulary a user has collected, keyed by the German term
type Store struct {
	entries []*models.VocabularyEntry
	index   map[string]*models.VocabularyEntry
}

// NewStore creates an empty vocabulary store
func NewStore() *Store {
	return &Store{
		index: make(map[string]*models.VocabularyEntry),
	}
}

// Extract scans replyText for vocabulary markers and updates the store.
// First sightings insert a new Learning entry and award NewTermPoints through
// the sink; repeat sightings only bump the seen counter, flipping the entry to
// Mastered at the threshold. It returns the reply with every marker replaced
// by the bare German term, plus the number of newly learned terms.
func (s *Store) Extract(replyText string, ctx Context, now time.Time, sink PointSink) (string, int) {
	newTerms := 0

	for _, match := range markerPattern.FindAllStringSubmatch(replyText, -1) {
		german := strings.TrimSpace(match[1])
		english := strings.TrimSpace(match[2])
		if german == "" {
			continue
		}

		if existing, ok := s.index[german]; ok {
			existing.TimesSeen++
			if existing.TimesSeen >= models.MasteryThreshold {
				existing.MasteryLevel = models.MasteryMastered
			}
			continue
		}

		entry := &models.VocabularyEntry{
			German:       german,
			English:      english,
			DateLearned:  now.Format("2006-01-02"),
			Difficulty:   ctx.Difficulty,
			Topic:        ctx.Topic,
			TimesSeen:    1,
			MasteryLevel: models.MasteryLearning,
		}
		s.entries = append(s.entries, entry)
		s.index[german] = entry
		newTerms++
		if sink != nil {
			sink.AwardPoints(NewTermPoints)
		}
	}

	display := markerPattern.ReplaceAllStringFunc(replyText, func(marker string) string {
		sub := markerPattern.FindStringSubmatch(marker)
		return strings.TrimSpace(sub[1])
	})

	return display, newTerms
}

// StripMarkers removes vocabulary markers without touching the store.
// Used when rendering text for speech or history display.
func StripMarkers(text string) string {
	return markerPattern.ReplaceAllStringFunc(text, func(marker string) string {
		sub := markerPattern.FindStringSubmatch(marker)
		return strings.TrimSpace(sub[1])
	})
}

// Get returns the entry for a German term, or nil if it was never seen
func (s *Store) Get(german string) *models.VocabularyEntry {
	return s.index[german]
}

// Count returns the number of distinct terms learned
func (s *Store) Count() int {
	return len(s.entries)
}

// Entries returns a copy of all entries in insertion order
func (s *Store) Entries() []models.VocabularyEntry {
	out := make([]models.VocabularyEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out
}

// Replace swaps the store contents wholesale, used by data import
func (s *Store) Replace(entries []models.VocabularyEntry) {
	s.entries = nil
	s.index = make(map[string]*models.VocabularyEntry)
	for i := range entries {
		e := entries[i]
		if e.German == "" {
			continue
		}
		if _, ok := s.index[e.German]; ok {
			continue
		}
		entry := &e
		s.entries = append(s.entries, entry)
		s.index[e.German] = entry
	}
}

// Reset clears the store
func (s *Store) Reset() {
	s.entries = nil
	s.index = make(map[string]*models.VocabularyEntry)
}
