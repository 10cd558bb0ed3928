package message

import (
	"time"

	"zorgmatch/internal/common"
)

type Message struct {
	ID         common.UUID `json:"id"`
	SenderID   common.UUID `json:"sender_id"`
	ReceiverID common.UUID `json:"receiver_id"`
	Content    string      `json:"content"`
	IsRead     bool        `json:"is_read"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Conversation summarizes the newest exchange with one counterpart.
type Conversation struct {
	UserID          common.UUID `json:"user_id"`
	UserName        string      `json:"user_name"`
	Email           string      `json:"email,omitempty"`
	LastMessage     string      `json:"last_message"`
	LastMessageDate time.Time   `json:"last_message_date"`
	UnreadCount     int         `json:"unread_count"`
}
