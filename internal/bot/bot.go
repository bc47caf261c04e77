package bot

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/example/deutschbot/internal/ai"
	"github.com/example/deutschbot/internal/database"
	"github.com/example/deutschbot/internal/progress"
	"github.com/example/deutschbot/internal/quiz"
	"github.com/example/deutschbot/internal/scheduler"
	"github.com/example/deutschbot/internal/session"
	"github.com/example/deutschbot/internal/translate"
	"github.com/example/deutschbot/internal/tts"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram bot application
type Bot struct {
	api              *tgbotapi.BotAPI
	token            string
	client           ai.Client
	translator       *translate.Translator
	speech           *tts.Service
	schedulerEnabled bool
	scheduler        *scheduler.Scheduler
	config           *BotConfig
	rnd              *rand.Rand

	settingsRepo  *database.SettingsRepository
	statsRepo     *database.StatsRepository
	vocabRepo     *database.VocabularyRepository
	challengeRepo *database.ChallengeRepository
	messageRepo   *database.MessageRepository

	// sessions and pending interaction state, keyed by chat ID.
	// Updates are handled one at a time and the scheduler goroutine only
	// sweeps the database, so all session access stays on the update loop.
	sessions       map[int64]*session.Session
	pendingQuiz    map[int64]*quiz.Question
	awaitingImport map[int64]bool
}

// New creates a new bot instance
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	client, err := ai.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %v", err)
	}

	schedulerEnabled := os.Getenv("ENABLE_SCHEDULER") != "false"

	return &Bot{
		token:            token,
		client:           client,
		translator:       translate.New(),
		speech:           tts.New(),
		schedulerEnabled: schedulerEnabled,
		config:           DefaultConfig(),
		rnd:              rand.New(rand.NewSource(time.Now().UnixNano())),
		settingsRepo:     database.NewSettingsRepository(),
		statsRepo:        database.NewStatsRepository(),
		vocabRepo:        database.NewVocabularyRepository(),
		challengeRepo:    database.NewChallengeRepository(),
		messageRepo:      database.NewMessageRepository(),
		sessions:         make(map[int64]*session.Session),
		pendingQuiz:      make(map[int64]*quiz.Question),
		awaitingImport:   make(map[int64]bool),
	}, nil
}

// Start initializes the Telegram connection and processes updates until the
// updates channel closes. Updates are handled sequentially: one conversation
// turn is in flight at a time, which keeps each turn's side effects applied
// exactly once.
func (b *Bot) Start() error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}

	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	if b.schedulerEnabled {
		b.scheduler = scheduler.New(b)
		b.scheduler.Start()
		log.Println("Daily challenge scheduler started")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)
	for update := range updates {
		b.handleUpdate(update)
	}

	return nil
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	log.Println("Bot stopped")
}

// ResetDailyChallenges implements the scheduler.Resetter interface: it drops
// stored challenge sets from previous days. Live sessions roll over lazily on
// their next activity, so the scheduler goroutine never touches session state.
func (b *Bot) ResetDailyChallenges(date string) error {
	_, err := b.challengeRepo.DeleteStale(date)
	return err
}

// getSession returns the live session for a chat, loading persisted state on
// first contact.
func (b *Bot) getSession(chatID int64) (*session.Session, error) {
	if s, ok := b.sessions[chatID]; ok {
		return s, nil
	}

	s := session.New(chatID, b.client)

	settings, err := b.settingsRepo.Get(chatID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		s.Settings = *settings
	}

	stats, err := b.statsRepo.Get(chatID)
	if err != nil {
		return nil, err
	}
	if stats != nil {
		s.Progress = progress.NewFromStats(stats)
	}

	entries, err := b.vocabRepo.GetByChat(chatID)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		s.Vocabulary.Replace(entries)
	}

	date, challenges, err := b.challengeRepo.GetSet(chatID)
	if err != nil {
		return nil, err
	}
	if date != "" {
		s.Challenges.Date = date
		s.Challenges.Replace(challenges)
		s.Challenges.EnsureFresh(time.Now())
	}

	messages, err := b.messageRepo.GetByChat(chatID)
	if err != nil {
		return nil, err
	}
	s.Messages = messages

	b.sessions[chatID] = s
	return s, nil
}

// saveSession persists the full session state after a mutation
func (b *Bot) saveSession(s *session.Session) {
	if err := b.settingsRepo.Save(s.ChatID, s.Settings); err != nil {
		log.Printf("Error saving settings for chat %d: %v", s.ChatID, err)
	}
	if err := b.statsRepo.Save(s.ChatID, s.Progress.Stats()); err != nil {
		log.Printf("Error saving stats for chat %d: %v", s.ChatID, err)
	}
	if err := b.vocabRepo.ReplaceForChat(s.ChatID, s.Vocabulary.Entries()); err != nil {
		log.Printf("Error saving vocabulary for chat %d: %v", s.ChatID, err)
	}
	if err := b.challengeRepo.SaveSet(s.ChatID, s.Challenges.Date, s.Challenges.Challenges); err != nil {
		log.Printf("Error saving challenges for chat %d: %v", s.ChatID, err)
	}
	if err := b.messageRepo.ReplaceForChat(s.ChatID, s.Messages); err != nil {
		log.Printf("Error saving messages for chat %d: %v", s.ChatID, err)
	}
}

// handleUpdate handles one incoming update from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		message := update.Message
		if message.IsCommand() {
			b.handleCommand(message)
			return
		}
		if b.pendingImport(message) {
			b.handleImportUpload(message)
			return
		}
		if message.Text != "" {
			b.handleConversation(message.Chat.ID, message.Text)
			return
		}
		b.send(message.Chat.ID, "Bitte senden Sie eine Textnachricht. Use /menu to see what I can do.")
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

// pendingImport reports whether this message is the upload a /import command
// asked for. Any message after /import clears the flag, so a document sent
// much later is treated as a normal message rather than an import.
func (b *Bot) pendingImport(message *tgbotapi.Message) bool {
	chatID := message.Chat.ID
	if !b.awaitingImport[chatID] {
		return false
	}
	delete(b.awaitingImport, chatID)
	return message.Document != nil
}

// send delivers a plain text message, logging delivery failures
func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

// sendWithKeyboard delivers a text message with an inline keyboard
func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

// MainMenuButtons returns the main menu keyboard layout
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "📊 Stats", CallbackData: "menu_stats"},
			{Text: "📚 Vocabulary", CallbackData: "menu_vocab"},
		},
		{
			{Text: "🏆 Achievements", CallbackData: "menu_achievements"},
			{Text: "🎯 Challenges", CallbackData: "menu_challenges"},
		},
		{
			{Text: "❓ Quiz", CallbackData: "menu_quiz"},
			{Text: "📝 Grammar Exercise", CallbackData: "menu_exercise"},
		},
		{
			{Text: "🎲 Random Topic", CallbackData: "menu_topic"},
			{Text: "⚙️ Settings", CallbackData: "menu_settings"},
		},
	}
}
