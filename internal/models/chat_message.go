// internal/models/chat_message.go
package models

import (
	"github.com/google/uuid"
)

// ChatMessage is one line of a chat transcript, either the user's message
// or the bot's reply.
type ChatMessage struct {
	BaseModel
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	FromBot   bool      `json:"from_bot" gorm:"default:false"`
}
