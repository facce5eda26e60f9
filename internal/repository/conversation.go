package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hogenchat/internal/models"
)

// ConversationRepository owns conversations and their history turns. All
// multi-row mutations run inside an explicit transaction so the
// parent/child relationship can never be half-applied.
type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// ListConversations returns every conversation, most recent first. Ties on
// created_at keep insertion order.
func (r *ConversationRepository) ListConversations() ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := r.db.Order("created_at DESC, id ASC").Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

func (r *ConversationRepository) CreateConversation(title *string) (*models.Conversation, error) {
	conversation := models.Conversation{Title: title}
	if err := r.db.Create(&conversation).Error; err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return &conversation, nil
}

// UpdateConversation overwrites the title when one is supplied; a nil title
// leaves the stored title untouched. Returns ErrNotFound when the id does
// not exist.
func (r *ConversationRepository) UpdateConversation(id uint, title *string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&conversation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if title == nil {
			return nil
		}
		conversation.Title = title
		return tx.Model(&conversation).Update("title", title).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update conversation %d: %w", id, err)
	}
	return &conversation, nil
}

// DeleteConversation removes a conversation and all of its histories in one
// transaction. A missing conversation aborts the transaction, so the child
// deletes from the first step are never committed on their own.
func (r *ConversationRepository) DeleteConversation(id uint) (bool, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.History{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Conversation{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete conversation %d: %w", id, err)
	}
	return true, nil
}

// ListHistories returns every turn across all conversations, most recent
// first.
func (r *ConversationRepository) ListHistories() ([]models.History, error) {
	var histories []models.History
	if err := r.db.Order("created_at DESC, id ASC").Find(&histories).Error; err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}
	return histories, nil
}

// ListHistoriesByConversation returns the turns of one conversation in
// chronological order, the natural reading order within a conversation.
func (r *ConversationRepository) ListHistoriesByConversation(conversationID uint) ([]models.History, error) {
	var histories []models.History
	if err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&histories).Error; err != nil {
		return nil, fmt.Errorf("list histories for conversation %d: %w", conversationID, err)
	}
	return histories, nil
}

// CreateHistory inserts a new turn. The parent conversation is resolved
// inside the same transaction as the insert, so a dangling conversation_id
// fails with ErrConversationMissing and leaves no row behind.
func (r *ConversationRepository) CreateHistory(history *models.History) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		if err := tx.First(&conversation, history.ConversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConversationMissing
			}
			return err
		}
		return tx.Create(history).Error
	})
	if errors.Is(err, ErrConversationMissing) {
		return ErrConversationMissing
	}
	if err != nil {
		return fmt.Errorf("create history: %w", err)
	}
	return nil
}
