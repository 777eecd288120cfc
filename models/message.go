package models

import "time"

// Message is a direct message between two users about a listing.
// The receiver is always the listing owner; replies go the other way.
type Message struct {
	Model
	SenderID   uint    `json:"sender_id" gorm:"not null;index"`
	Sender     User    `json:"-" gorm:"foreignKey:SenderID"`
	ReceiverID uint    `json:"receiver_id" gorm:"not null;index"`
	Receiver   User    `json:"-" gorm:"foreignKey:ReceiverID"`
	ListingID  uint    `json:"listing_id" gorm:"not null;index"`
	Listing    Listing `json:"-" gorm:"foreignKey:ListingID"`
	Body       string  `json:"body" gorm:"type:text;not null"`
}

type SendMessageRequest struct {
	ListingID uint   `json:"listing_id" form:"listing_id" binding:"required"`
	Body      string `json:"body" form:"body" conform:"trim"`
}

type MessageResponse struct {
	ID             uint      `json:"id"`
	SenderID       uint      `json:"sender_id"`
	SenderUsername string    `json:"sender_username"`
	ReceiverID     uint      `json:"receiver_id"`
	ListingID      uint      `json:"listing_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationSummary is one row of the per-user overview: the latest
// message exchanged with a counterpart about one listing.
type ConversationSummary struct {
	ListingID           uint      `json:"listing_id"`
	ListingTitle        string    `json:"listing_title"`
	CounterpartID       uint      `json:"counterpart_id"`
	CounterpartUsername string    `json:"counterpart_username"`
	LastMessageBody     string    `json:"last_message_body"`
	LastMessageAt       time.Time `json:"last_message_at"`
	LastMessageFromMe   bool      `json:"last_message_from_me"`
}

// NewMessageResponse shapes a message for the thread view.
func NewMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		SenderID:       m.SenderID,
		SenderUsername: m.Sender.Username,
		ReceiverID:     m.ReceiverID,
		ListingID:      m.ListingID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}
