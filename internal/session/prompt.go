package session

import (
	"fmt"
	"strings"

	"github.com/example/deutschbot/pkg/models"
)

// BuildSystemPrompt assembles the system instruction for the model from the
// user's conversation settings. The instruction itself is German: it shapes a
// German-speaking tutor persona and tells the model to flag new vocabulary
// with the [VOCAB: wort - translation] marker convention.
func BuildSystemPrompt(settings models.Settings) string {
	difficultyPrompts := map[string]string{
		models.DifficultyBeginner:     "Du bist ein sehr geduldiger deutscher Lehrer. Verwende einfache Wörter und kurze Sätze.",
		models.DifficultyIntermediate: "Du bist ein freundlicher deutscher Muttersprachler. Verwende mittelschwere Sprache.",
		models.DifficultyAdvanced:     "Du bist ein gebildeter deutscher Muttersprachler. Verwende natürliche, komplexe Sprache.",
	}
	difficultyPrompt, ok := difficultyPrompts[settings.Difficulty]
	if !ok {
		difficultyPrompt = difficultyPrompts[models.DifficultyIntermediate]
	}

	culturalContext := ""
	switch settings.Topic {
	case "German culture":
		culturalContext = " Teile interessante Fakten über deutsche Kultur, Traditionen und Geschichte."
	case "Food and cooking":
		culturalContext = " Erwähne traditionelle deutsche Gerichte und Essgewohnheiten."
	case "Travel and culture":
		culturalContext = " Beschreibe deutsche Städte, Sehenswürdigkeiten und Reisetipps."
	}

	grammarInstructions := map[string]string{
		models.GrammarGentle:    "Korrigiere Fehler sanft und kurz.",
		models.GrammarDetailed:  "Erkläre Grammatikfehler ausführlich mit Beispielen.",
		models.GrammarExercises: "Gib nach Korrekturen kleine Übungen zum Üben.",
	}
	grammarInstruction, ok := grammarInstructions[settings.GrammarMode]
	if !ok {
		grammarInstruction = grammarInstructions[models.GrammarGentle]
	}

	var languageInstruction string
	switch settings.InputLanguage {
	case models.InputEnglishOnly:
		languageInstruction = "Der Nutzer spricht nur Englisch. Antworte auf Deutsch mit englischen Erklärungen."
	case models.InputGermanOnly:
		languageInstruction = "Der Nutzer spricht Deutsch. Antworte nur auf Deutsch."
	default:
		languageInstruction = "Akzeptiere Eingaben auf Englisch oder Deutsch. Antworte immer auf Deutsch."
		if settings.ShowTranslation {
			languageInstruction += " Zeige Übersetzungen für schwierige Begriffe."
		}
	}

	topicContext := ""
	if settings.Topic != "" && settings.Topic != "Free conversation" {
		topicContext = fmt.Sprintf(" Das Gesprächsthema ist: %s.", settings.Topic)
	}

	var sb strings.Builder
	sb.WriteString(difficultyPrompt)
	sb.WriteString(" ")
	sb.WriteString(languageInstruction)
	sb.WriteString(" ")
	sb.WriteString(grammarInstruction)
	sb.WriteString(topicContext)
	sb.WriteString(culturalContext)
	sb.WriteString("\n\n")
	sb.WriteString("Markiere neue Vokabeln mit [VOCAB: deutsches_wort - english_translation].\n")
	sb.WriteString("Verwende manchmal deutsche Redewendungen und erkläre sie.\n")
	sb.WriteString("Stelle interessante Folgefragen um das Gespräch lebendig zu halten.\n")
	sb.WriteString("Sei ermutigend und positiv beim Korrigieren.\n")
	sb.WriteString("Erwähne gelegentlich deutsche Kultur und Traditionen.")

	return sb.String()
}
