package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hogenchat/internal/models"
	"hogenchat/internal/repository"
)

type ConversationHandler struct {
	repo *repository.ConversationRepository
}

func NewConversationHandler(repo *repository.ConversationRepository) *ConversationHandler {
	return &ConversationHandler{repo: repo}
}

// ListConversations returns all conversations, most recent first.
func (h *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	conversations, err := h.repo.ListConversations()
	if err != nil {
		slog.Error("Failed to list conversations", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list conversations",
		})
	}
	return c.JSON(conversations)
}

func (h *ConversationHandler) CreateConversation(c *fiber.Ctx) error {
	var req struct {
		Title *string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	conversation, err := h.repo.CreateConversation(req.Title)
	if err != nil {
		slog.Error("Failed to create conversation", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create conversation",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(conversation)
}

// UpdateConversation changes the title when one is supplied. Storage faults
// are logged and answered as not-found: a failed update must look the same
// as a missing conversation so the caller never acts on a half-applied one.
func (h *ConversationHandler) UpdateConversation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid conversation ID",
		})
	}

	var req struct {
		Title *string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	conversation, err := h.repo.UpdateConversation(id, req.Title)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("Failed to update conversation", "id", id, "error", err)
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Conversation not found",
		})
	}
	return c.JSON(conversation)
}

// DeleteConversation removes a conversation and its histories. Same fail-soft
// boundary as UpdateConversation: a rolled-back storage fault reads as
// not-found.
func (h *ConversationHandler) DeleteConversation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid conversation ID",
		})
	}

	deleted, err := h.repo.DeleteConversation(id)
	if err != nil {
		slog.Error("Failed to delete conversation", "id", id, "error", err)
	}
	if err != nil || !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Conversation not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Conversation deleted successfully"})
}

// ListHistories returns all turns, or one conversation's turns in
// chronological order when conversation_id is given.
func (h *ConversationHandler) ListHistories(c *fiber.Ctx) error {
	var (
		histories []models.History
		err       error
	)
	if raw := c.Query("conversation_id"); raw != "" {
		conversationID, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "Invalid conversation ID",
			})
		}
		histories, err = h.repo.ListHistoriesByConversation(uint(conversationID))
	} else {
		histories, err = h.repo.ListHistories()
	}
	if err != nil {
		slog.Error("Failed to list histories", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list histories",
		})
	}
	return c.JSON(histories)
}

func (h *ConversationHandler) CreateHistory(c *fiber.Ctx) error {
	var req struct {
		UserInput      string `json:"user_input"`
		BotOutput      string `json:"bot_output"`
		Dialect        string `json:"dialect"`
		Direction      string `json:"direction"`
		ConversationID uint   `json:"conversation_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}
	if req.UserInput == "" || req.BotOutput == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "user_input and bot_output are required",
		})
	}

	history := models.History{
		UserInput:      req.UserInput,
		BotOutput:      req.BotOutput,
		Dialect:        req.Dialect,
		Direction:      req.Direction,
		ConversationID: req.ConversationID,
	}
	if err := h.repo.CreateHistory(&history); err != nil {
		if errors.Is(err, repository.ErrConversationMissing) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "Conversation does not exist",
			})
		}
		slog.Error("Failed to create history", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create history",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(history)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
