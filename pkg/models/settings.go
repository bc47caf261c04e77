package models

// Difficulty levels
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Input language modes
const (
	InputBoth        = "Both (English & German)"
	InputGermanOnly  = "German only"
	InputEnglishOnly = "English only"
)

// Grammar correction modes
const (
	GrammarGentle    = "Gentle corrections"
	GrammarDetailed  = "Detailed explanations"
	GrammarExercises = "Practice exercises"
)

// Topics available for conversation
var Topics = []string{
	"Free conversation",
	"Daily activities",
	"Food and cooking",
	"Travel and culture",
	"Work and career",
	"Hobbies and interests",
	"Grammar practice",
	"Pronunciation training",
	"German culture",
}

// Settings holds the per-user conversation configuration
type Settings struct {
	Difficulty        string `json:"difficulty"`
	Topic             string `json:"topic"`
	InputLanguage     string `json:"input_language"`
	InterfaceLanguage string `json:"interface_language"`
	ShowTranslation   bool   `json:"show_translation"`
	GrammarMode       string `json:"grammar_mode"`
	AutoSpeak         bool   `json:"auto_speak"`
	SlowSpeech        bool   `json:"slow_speech"`
}

// DefaultSettings returns the settings a new user starts with
func DefaultSettings() Settings {
	return Settings{
		Difficulty:        DifficultyIntermediate,
		Topic:             Topics[0],
		InputLanguage:     InputBoth,
		InterfaceLanguage: "English",
		ShowTranslation:   true,
		GrammarMode:       GrammarGentle,
		AutoSpeak:         true,
		SlowSpeech:        false,
	}
}
