package models

import "time"

type Conversation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     *string   `gorm:"size:100" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Histories []History `gorm:"foreignKey:ConversationID" json:"-"`
}

// History is one recorded translation turn. Turns are immutable once written;
// they only go away when their conversation is deleted.
type History struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserInput      string    `gorm:"size:255;not null" json:"user_input"`
	BotOutput      string    `gorm:"size:255;not null" json:"bot_output"`
	Dialect        string    `gorm:"size:30;not null" json:"dialect"`
	Direction      string    `gorm:"size:30;not null" json:"direction"` // standard-to-dialect or dialect-to-standard
	CreatedAt      time.Time `json:"created_at"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
}
