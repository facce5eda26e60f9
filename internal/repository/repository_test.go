package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hogenchat/internal/database"
	"hogenchat/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// seedConversation inserts a conversation with a fixed timestamp, bypassing
// the repository so tests control created_at exactly.
func seedConversation(t *testing.T, db *gorm.DB, title string, createdAt time.Time) models.Conversation {
	t.Helper()
	conversation := models.Conversation{Title: strPtr(title), CreatedAt: createdAt}
	if err := db.Create(&conversation).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	return conversation
}

func seedHistory(t *testing.T, db *gorm.DB, conversationID uint, input string, createdAt time.Time) models.History {
	t.Helper()
	history := models.History{
		UserInput:      input,
		BotOutput:      "translated: " + input,
		Dialect:        "関西弁",
		Direction:      "standard-to-dialect",
		CreatedAt:      createdAt,
		ConversationID: conversationID,
	}
	if err := db.Create(&history).Error; err != nil {
		t.Fatalf("seed history: %v", err)
	}
	return history
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
