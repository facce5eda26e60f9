package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const Version = "1.0.0"

type SystemHandler struct {
	db *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "hogenchat backend"})
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unreachable"
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  Version,
		"database": dbStatus,
	})
}
