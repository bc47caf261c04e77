package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/deutschbot/internal/excel"
	"github.com/example/deutschbot/internal/quiz"
	"github.com/example/deutschbot/internal/translate"
	"github.com/example/deutschbot/internal/vocabulary"
	"github.com/example/deutschbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// grammarExercises are the fixed prompts behind the grammar exercise quick tool
var grammarExercises = []string{
	"Bilde einen Satz mit dem Dativ.",
	"Konjugiere das Verb 'sprechen' im Präsens.",
	"Erkläre den Unterschied zwischen 'der', 'die', 'das'.",
	"Verwende eine Präposition mit dem Akkusativ.",
	"Bilde den Plural von 'das Kind'.",
}

// randomTopics are the openers behind the random topic quick tool
var randomTopics = []string{"Wetter", "Familie", "Hobbys", "Reisen", "Essen", "Musik", "Sport"}

// handleCommand dispatches bot commands
func (b *Bot) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "menu":
		b.sendWithKeyboard(chatID, "What would you like to do?", createKeyboard(b.MainMenuButtons()))
	case "stats":
		b.handleStats(chatID)
	case "vocab":
		b.handleVocabulary(chatID)
	case "achievements":
		b.handleAchievements(chatID)
	case "challenges":
		b.handleChallenges(chatID)
	case "quiz":
		b.handleQuiz(chatID)
	case "exercise":
		b.handleGrammarExercise(chatID)
	case "topic":
		b.handleRandomTopic(chatID)
	case "translate":
		b.handleTranslate(chatID, message.CommandArguments())
	case "say":
		b.handleSay(chatID)
	case "export":
		b.handleExport(chatID)
	case "import":
		b.awaitingImport[chatID] = true
		b.send(chatID, "📤 Send me a previously exported JSON file and I will restore your data.")
	case "xlsx":
		b.handleExcelExport(chatID)
	case "reset":
		b.handleReset(chatID)
	case "settings":
		b.handleSettings(chatID)
	default:
		b.sendWithKeyboard(chatID, "Unknown command. Use /menu to show the main menu.", createKeyboard(b.MainMenuButtons()))
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcomeText := `Willkommen! 🇩🇪 I'm your German practice partner.

Just write to me in German or English and we'll talk. I mark new vocabulary
for you, track your streak, points and achievements, and set daily challenges.

Commands:
/menu - Main menu
/stats - Your progress
/vocab - Your vocabulary list
/challenges - Today's challenges
/quiz - Vocabulary quiz
/exercise - Grammar exercise
/topic - Random conversation topic
/translate <text> - Translate text
/say - Hear my last reply
/export - Download your data
/import - Restore your data
/xlsx - Vocabulary as Excel file
/reset - Clear the conversation
/settings - Difficulty, topic and more`

	b.sendWithKeyboard(message.Chat.ID, welcomeText, createKeyboard(b.MainMenuButtons()))
}

// handleConversation runs one conversation turn through the session
func (b *Bot) handleConversation(chatID int64, text string) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("Error sending typing action to chat %d: %v", chatID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.config.ChatTimeout)
	defer cancel()

	result, err := s.Submit(ctx, strings.TrimSpace(text))
	if err != nil {
		// The session already degraded to the fallback reply and left all
		// state untouched; just log the cause.
		log.Printf("Model call failed for chat %d: %v", chatID, err)
		b.send(chatID, result.Reply)
		return
	}

	b.send(chatID, result.Reply)

	if result.NewWords > 0 {
		b.send(chatID, fmt.Sprintf("📚 %d new word(s) added to your vocabulary! +%d points",
			result.NewWords, result.NewWords*vocabulary.NewTermPoints))
	}
	for _, name := range result.NewUnlocks {
		b.send(chatID, fmt.Sprintf("🏆 Achievement Unlocked: %s!", name))
	}

	if s.Settings.AutoSpeak {
		b.sendVoiceReply(chatID, result.Reply, s.Settings.SlowSpeech)
	}

	b.saveSession(s)
}

// sendVoiceReply synthesizes text and sends it as an audio message.
// Speech failures are reported but never touch session state.
func (b *Bot) sendVoiceReply(chatID int64, text string, slow bool) {
	ctx, cancel := context.WithTimeout(context.Background(), b.config.ToolTimeout)
	defer cancel()

	audio, err := b.speech.Synthesize(ctx, text, "de", slow)
	if err != nil {
		log.Printf("Error synthesizing speech for chat %d: %v", chatID, err)
		b.send(chatID, "🔇 Sprachausgabe ist gerade nicht verfügbar.")
		return
	}

	voice := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{Name: "reply.mp3", Bytes: audio})
	if _, err := b.api.Send(voice); err != nil {
		log.Printf("Error sending audio to chat %d: %v", chatID, err)
	}
}

func (b *Bot) handleStats(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	stats := s.Progress.Stats()
	pointsToNext := s.Progress.CurrentLevel()*models.PointsPerLevel - stats.TotalPoints

	var sb strings.Builder
	sb.WriteString("📊 Your Progress\n\n")
	sb.WriteString(fmt.Sprintf("⭐ Level %d — %d points\n", stats.Level, stats.TotalPoints))
	if stats.Level < models.MaxLevel && pointsToNext > 0 {
		sb.WriteString(fmt.Sprintf("(%d points to Level %d)\n", pointsToNext, stats.Level+1))
	}
	sb.WriteString(fmt.Sprintf("🔥 %d day streak\n\n", stats.DailyStreak))
	sb.WriteString(fmt.Sprintf("💬 Messages sent: %d\n", stats.MessagesSent))
	sb.WriteString(fmt.Sprintf("📚 Words learned: %d\n", s.Vocabulary.Count()))
	sb.WriteString(fmt.Sprintf("✏️ Corrections: %d\n", stats.CorrectionsMade))
	sb.WriteString(fmt.Sprintf("📝 Grammar exercises: %d\n", stats.GrammarExercisesCompleted))
	sb.WriteString(fmt.Sprintf("🏆 Achievements: %d", len(stats.Achievements)))

	b.send(chatID, sb.String())
}

func (b *Bot) handleVocabulary(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	entries := s.Vocabulary.Entries()
	if len(entries) == 0 {
		b.send(chatID, "Your vocabulary list is empty. Start a conversation to collect words! 📚")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📚 Your Vocabulary (%d words)\n\n", len(entries)))
	shown := entries
	if len(shown) > b.config.VocabPageSize {
		shown = shown[len(shown)-b.config.VocabPageSize:]
		sb.WriteString(fmt.Sprintf("(latest %d — use /xlsx for the full list)\n\n", len(shown)))
	}
	for _, e := range shown {
		mark := "🟡"
		if e.Mastered() {
			mark = "🟢"
		}
		sb.WriteString(fmt.Sprintf("%s %s — %s (seen %d×)\n", mark, e.German, e.English, e.TimesSeen))
	}

	b.send(chatID, sb.String())
}

func (b *Bot) handleAchievements(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	stats := s.Progress.Stats()
	var sb strings.Builder
	sb.WriteString("🏆 Achievements\n\n")
	if len(stats.Achievements) == 0 {
		sb.WriteString("Nothing unlocked yet — keep practicing!\n")
	} else {
		for _, a := range stats.Achievements {
			sb.WriteString(fmt.Sprintf("🏅 %s\n", a))
		}
	}

	locked := []struct{ name, requirement string }{
		{"Chatterbox", "send 10 messages"},
		{"Vocabulary Collector", "learn 50 words"},
		{"Week Warrior", "7-day streak"},
		{"Grammar Master", "complete 10 grammar exercises"},
		{"Point Collector", "earn 500 points"},
	}
	var pending []string
	for _, l := range locked {
		if !stats.HasAchievement(l.name) {
			pending = append(pending, fmt.Sprintf("🔒 %s — %s", l.name, l.requirement))
		}
	}
	if len(pending) > 0 {
		sb.WriteString("\nStill locked:\n")
		sb.WriteString(strings.Join(pending, "\n"))
	}

	b.send(chatID, sb.String())
}

func (b *Bot) handleChallenges(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	s.Challenges.EnsureFresh(time.Now())

	var sb strings.Builder
	sb.WriteString("🎯 Today's Challenges\n\n")
	for i := range s.Challenges.Challenges {
		c := &s.Challenges.Challenges[i]
		status := "🔄"
		if c.Completed() {
			status = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n%s (%d/%d) — %d points\n\n",
			status, c.Name, c.Description, c.CappedProgress(), c.Target, c.Points))
	}
	sb.WriteString(fmt.Sprintf("Daily progress: %d/%d points",
		s.Challenges.CompletedPoints(), s.Challenges.TotalPoints()))

	b.send(chatID, sb.String())
	b.saveSession(s)
}

func (b *Bot) handleQuiz(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	question, err := quiz.BuildQuestion(s.Vocabulary.Entries(), b.rnd)
	if err != nil {
		b.send(chatID, fmt.Sprintf("You need at least %d words in your vocabulary for a quiz. Keep chatting! 📚", quiz.MinEntries))
		return
	}

	b.pendingQuiz[chatID] = question

	var rows [][]MenuButton
	for i, option := range question.Options {
		rows = append(rows, []MenuButton{{
			Text:         option,
			CallbackData: fmt.Sprintf("quiz_answer_%d", i),
		}})
	}

	b.sendWithKeyboard(chatID,
		fmt.Sprintf("❓ What does '%s' mean in English?", question.German),
		createKeyboard(rows))
}

func (b *Bot) handleQuizAnswer(chatID int64, choice int) {
	question, ok := b.pendingQuiz[chatID]
	if !ok {
		b.send(chatID, "No quiz is running. Start one with /quiz.")
		return
	}
	delete(b.pendingQuiz, chatID)

	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		return
	}

	if question.Check(choice) {
		s.Progress.AwardPoints(quiz.CorrectPoints)
		b.send(chatID, fmt.Sprintf("🎉 Correct! Well done! +%d points", quiz.CorrectPoints))
	} else {
		s.Progress.AwardPoints(quiz.ConsolationPoints)
		b.send(chatID, fmt.Sprintf("❌ Not quite. The correct answer is: %s (+%d points for trying)",
			question.Answer(), quiz.ConsolationPoints))
	}

	for _, name := range s.Progress.EvaluateAchievements() {
		b.send(chatID, fmt.Sprintf("🏆 Achievement Unlocked: %s!", name))
	}

	b.saveSession(s)
}

func (b *Bot) handleGrammarExercise(chatID int64) {
	exercise := grammarExercises[b.rnd.Intn(len(grammarExercises))]
	b.handleConversation(chatID, "Grammatikübung: "+exercise)
}

func (b *Bot) handleRandomTopic(chatID int64) {
	topic := randomTopics[b.rnd.Intn(len(randomTopics))]
	b.handleConversation(chatID, fmt.Sprintf("Lass uns über %s sprechen.", topic))
}

// handleTranslate translates the given text. German-looking text goes to
// English, everything else to German. The translator falls back to the input
// on failure, so this never errors out.
func (b *Bot) handleTranslate(chatID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		s, err := b.getSession(chatID)
		if err == nil && s.LastAssistantReply() != "" {
			text = s.LastAssistantReply()
		} else {
			b.send(chatID, "Usage: /translate <text> — or send it after my reply to translate that.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.config.ToolTimeout)
	defer cancel()

	var result, flag string
	if translate.ContainsGermanCharacters(text) {
		result = b.translator.Translate(ctx, text, "en")
		flag = "🇺🇸 English"
	} else {
		result = b.translator.Translate(ctx, text, "de")
		flag = "🇩🇪 Deutsch"
	}

	b.send(chatID, fmt.Sprintf("%s: %s", flag, result))

	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		return
	}
	s.RecordTranslation()
	b.saveSession(s)
}

// handleSay speaks the last assistant reply
func (b *Bot) handleSay(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	reply := s.LastAssistantReply()
	if reply == "" {
		b.send(chatID, "Nothing to say yet — send me a message first!")
		return
	}

	b.sendVoiceReply(chatID, reply, s.Settings.SlowSpeech)
}

func (b *Bot) handleExport(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	data, err := s.Export()
	if err != nil {
		log.Printf("Error exporting data for chat %d: %v", chatID, err)
		b.send(chatID, "Export failed. Please try again.")
		return
	}

	filename := fmt.Sprintf("german_learning_data_%s.json", time.Now().Format("20060102_150405"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = "📥 Your complete learning data"
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Error sending export to chat %d: %v", chatID, err)
	}
}

// handleImportUpload restores session state from an uploaded export document
func (b *Bot) handleImportUpload(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	fileURL, err := b.api.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		log.Printf("Error resolving import file for chat %d: %v", chatID, err)
		b.send(chatID, "⚠️ I couldn't download that file. Please try again.")
		return
	}

	data, err := downloadFile(fileURL)
	if err != nil {
		log.Printf("Error downloading import file for chat %d: %v", chatID, err)
		b.send(chatID, "⚠️ I couldn't download that file. Please try again.")
		return
	}

	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	if err := s.ApplyImport(data); err != nil {
		log.Printf("Error importing data for chat %d: %v", chatID, err)
		b.send(chatID, "⚠️ That doesn't look like a valid export file. Nothing was changed.")
		return
	}

	b.saveSession(s)
	b.send(chatID, "✅ Data imported successfully!")
}

func (b *Bot) handleExcelExport(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	entries := s.Vocabulary.Entries()
	if len(entries) == 0 {
		b.send(chatID, "Your vocabulary list is empty — nothing to export yet.")
		return
	}

	data, err := excel.ExportVocabulary(entries)
	if err != nil {
		log.Printf("Error building Excel export for chat %d: %v", chatID, err)
		b.send(chatID, "Export failed. Please try again.")
		return
	}

	filename := fmt.Sprintf("vocabulary_%s.xlsx", time.Now().Format("20060102"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = fmt.Sprintf("📚 %d vocabulary words", len(entries))
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Error sending Excel export to chat %d: %v", chatID, err)
	}
}

func (b *Bot) handleReset(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	s.ResetConversation()
	b.saveSession(s)
	b.send(chatID, "🗑️ Conversation cleared. Your vocabulary, points and achievements are kept.")
}

func (b *Bot) handleSettings(chatID int64) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		b.send(chatID, "Something went wrong loading your data. Please try again.")
		return
	}

	text := fmt.Sprintf(`⚙️ Settings

Difficulty: %s
Topic: %s
Input language: %s
Grammar correction: %s
Voice replies: %s
Slow speech: %s`,
		s.Settings.Difficulty,
		s.Settings.Topic,
		s.Settings.InputLanguage,
		s.Settings.GrammarMode,
		onOff(s.Settings.AutoSpeak),
		onOff(s.Settings.SlowSpeech),
	)

	buttons := [][]MenuButton{
		{
			{Text: "Beginner", CallbackData: "set_difficulty_0"},
			{Text: "Intermediate", CallbackData: "set_difficulty_1"},
			{Text: "Advanced", CallbackData: "set_difficulty_2"},
		},
		{
			{Text: "🔄 Next topic", CallbackData: "set_topic_next"},
			{Text: "🌐 Input language", CallbackData: "set_input_next"},
		},
		{
			{Text: "✏️ Correction mode", CallbackData: "set_grammar_next"},
		},
		{
			{Text: "🔊 Voice on/off", CallbackData: "toggle_speak"},
			{Text: "🐢 Slow on/off", CallbackData: "toggle_slow"},
		},
	}

	b.sendWithKeyboard(chatID, text, createKeyboard(buttons))
}

// handleCallbackQuery handles inline keyboard presses
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	data := query.Data

	// Acknowledge the press so the client stops its spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Error answering callback for chat %d: %v", chatID, err)
	}

	switch {
	case data == "menu_stats":
		b.handleStats(chatID)
	case data == "menu_vocab":
		b.handleVocabulary(chatID)
	case data == "menu_achievements":
		b.handleAchievements(chatID)
	case data == "menu_challenges":
		b.handleChallenges(chatID)
	case data == "menu_quiz":
		b.handleQuiz(chatID)
	case data == "menu_exercise":
		b.handleGrammarExercise(chatID)
	case data == "menu_topic":
		b.handleRandomTopic(chatID)
	case data == "menu_settings":
		b.handleSettings(chatID)
	case strings.HasPrefix(data, "quiz_answer_"):
		choice, err := strconv.Atoi(strings.TrimPrefix(data, "quiz_answer_"))
		if err != nil {
			return
		}
		b.handleQuizAnswer(chatID, choice)
	case strings.HasPrefix(data, "set_difficulty_"):
		b.updateSettings(chatID, func(s *models.Settings) {
			levels := []string{models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced}
			if i, err := strconv.Atoi(strings.TrimPrefix(data, "set_difficulty_")); err == nil && i >= 0 && i < len(levels) {
				s.Difficulty = levels[i]
			}
		})
	case data == "set_topic_next":
		b.updateSettings(chatID, func(s *models.Settings) {
			s.Topic = nextOption(models.Topics, s.Topic)
		})
	case data == "set_input_next":
		b.updateSettings(chatID, func(s *models.Settings) {
			s.InputLanguage = nextOption([]string{models.InputBoth, models.InputGermanOnly, models.InputEnglishOnly}, s.InputLanguage)
		})
	case data == "set_grammar_next":
		b.updateSettings(chatID, func(s *models.Settings) {
			s.GrammarMode = nextOption([]string{models.GrammarGentle, models.GrammarDetailed, models.GrammarExercises}, s.GrammarMode)
		})
	case data == "toggle_speak":
		b.updateSettings(chatID, func(s *models.Settings) {
			s.AutoSpeak = !s.AutoSpeak
		})
	case data == "toggle_slow":
		b.updateSettings(chatID, func(s *models.Settings) {
			s.SlowSpeech = !s.SlowSpeech
		})
	}
}

// updateSettings applies a mutation to the user's settings and re-renders them
func (b *Bot) updateSettings(chatID int64, mutate func(*models.Settings)) {
	s, err := b.getSession(chatID)
	if err != nil {
		log.Printf("Error loading session for chat %d: %v", chatID, err)
		return
	}
	mutate(&s.Settings)
	b.saveSession(s)
	b.handleSettings(chatID)
}

// nextOption cycles to the option after current, wrapping around
func nextOption(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// downloadFile fetches a file from the Telegram file API
func downloadFile(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %v", err)
	}
	return data, nil
}
