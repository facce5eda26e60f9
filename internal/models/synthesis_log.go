package models

import (
	"time"

	"gorm.io/datatypes"
)

// SynthesisLog records one synthesis attempt. Details carries operational
// numbers only (text length, audio bytes, duration); the spoken text itself
// is never persisted.
type SynthesisLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Speaker   int            `gorm:"not null" json:"speaker"`
	Status    string         `gorm:"not null" json:"status"` // ok, query_failed, render_failed
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}
