package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestPendingImportAcceptsNextDocument(t *testing.T) {
	b := &Bot{awaitingImport: map[int64]bool{7: true}}

	doc := &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 7},
		Document: &tgbotapi.Document{FileID: "file-1"},
	}
	if !b.pendingImport(doc) {
		t.Error("document right after /import should be treated as an upload")
	}
	if b.awaitingImport[7] {
		t.Error("flag should be cleared after the upload")
	}
}

func TestPendingImportClearsOnAnyMessage(t *testing.T) {
	b := &Bot{awaitingImport: map[int64]bool{7: true}}

	text := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}, Text: "hallo"}
	if b.pendingImport(text) {
		t.Error("a text message is not an import upload")
	}
	if b.awaitingImport[7] {
		t.Error("a text message should cancel the pending import")
	}

	// A document arriving later is an ordinary message, not an import
	doc := &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 7},
		Document: &tgbotapi.Document{FileID: "file-1"},
	}
	if b.pendingImport(doc) {
		t.Error("a document after the flag was cleared should not import")
	}
}

func TestPendingImportIgnoresOtherChats(t *testing.T) {
	b := &Bot{awaitingImport: map[int64]bool{7: true}}

	doc := &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 8},
		Document: &tgbotapi.Document{FileID: "file-1"},
	}
	if b.pendingImport(doc) {
		t.Error("a document from another chat should not import")
	}
	if !b.awaitingImport[7] {
		t.Error("chat 7's pending import should be untouched")
	}
}
