package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/deutschbot/pkg/models"
)

// Version identifies the export document format
const Version = "2.0"

// Document is the JSON session export format
type Document struct {
	Messages        []models.ConversationMessage `json:"messages"`
	Vocabulary      []models.VocabularyEntry     `json:"vocabulary"`
	Stats           *models.ProgressStats        `json:"stats"`
	DailyChallenges []models.DailyChallenge      `json:"daily_challenges"`
	Settings        *models.Settings             `json:"settings"`
	ExportDate      string                       `json:"export_date"`
	Version         string                       `json:"version"`
}

// Marshal serializes a document, stamping the export date and format version
func Marshal(doc Document, now time.Time) ([]byte, error) {
	doc.ExportDate = now.Format(time.RFC3339)
	doc.Version = Version
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export document: %v", err)
	}
	return data, nil
}

// Parsed holds the sections found in an import document. Pointer fields stay
// nil when the corresponding key was absent, so the importer can leave local
// state untouched; stats are kept raw so matching fields overwrite in place.
type Parsed struct {
	Messages        *[]models.ConversationMessage
	Vocabulary      *[]models.VocabularyEntry
	Stats           json.RawMessage
	DailyChallenges *[]models.DailyChallenge
	Settings        json.RawMessage
}

type importDocument struct {
	Messages        *[]models.ConversationMessage `json:"messages"`
	Vocabulary      *[]models.VocabularyEntry     `json:"vocabulary"`
	Stats           json.RawMessage               `json:"stats"`
	DailyChallenges *[]models.DailyChallenge      `json:"daily_challenges"`
	Settings        json.RawMessage               `json:"settings"`
}

// Parse decodes an import document. A document that is not a JSON object is
// rejected; individual missing keys are not an error.
func Parse(data []byte) (*Parsed, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse import document: %v", err)
	}
	return &Parsed{
		Messages:        doc.Messages,
		Vocabulary:      doc.Vocabulary,
		Stats:           doc.Stats,
		DailyChallenges: doc.DailyChallenges,
		Settings:        doc.Settings,
	}, nil
}

// ApplyStats overwrites matching fields of stats from the raw stats section.
// Fields the section does not carry keep their current values.
func (p *Parsed) ApplyStats(stats *models.ProgressStats) error {
	if len(p.Stats) == 0 {
		return nil
	}
	if err := json.Unmarshal(p.Stats, stats); err != nil {
		return fmt.Errorf("failed to apply stats: %v", err)
	}
	return nil
}

// ApplySettings overwrites matching fields of settings from the raw settings section
func (p *Parsed) ApplySettings(settings *models.Settings) error {
	if len(p.Settings) == 0 {
		return nil
	}
	if err := json.Unmarshal(p.Settings, settings); err != nil {
		return fmt.Errorf("failed to apply settings: %v", err)
	}
	return nil
}
