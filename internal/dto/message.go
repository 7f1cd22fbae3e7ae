package dto

import (
	"time"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// SendMessageRequest defines the payload for sending a direct message.
type SendMessageRequest struct {
	ReceiverID  string  `json:"receiverId" binding:"required"`
	Content     string  `json:"content" binding:"required"`
	MessageType string  `json:"messageType" binding:"omitempty,oneof=TEXT BOOK_CARD"`
	BookID      *string `json:"bookId"`
}

// MessageResponse defines the data returned for a message.
type MessageResponse struct {
	MessageID   string          `json:"messageID"`
	SenderID    string          `json:"senderID"`
	ReceiverID  string          `json:"receiverID"`
	Content     string          `json:"content"`
	MessageType string          `json:"messageType"`
	BookID      *string         `json:"bookID,omitempty"`
	IsRead      bool            `json:"isRead"`
	Sender      *UserSummaryDTO `json:"sender,omitempty"`
	Book        *BookSummaryDTO `json:"book,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ConversationResponse is a conversation seen from the requesting user's side.
type ConversationResponse struct {
	ConversationID string           `json:"conversationID"`
	OtherUser      UserSummaryDTO   `json:"otherUser"`
	LastMessage    *MessageResponse `json:"lastMessage,omitempty"`
	UnreadCount    int              `json:"unreadCount"`
	LastMessageAt  time.Time        `json:"lastMessageAt"`
}

// UnreadCountResponse reports the number of unread messages.
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

// ListMessagesParams defines query parameters for conversation history.
type ListMessagesParams struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
}

// ToMessageResponse converts a domain.Message to MessageResponse DTO.
func ToMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		MessageID:   m.MessageID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		Content:     m.Content,
		MessageType: string(m.MessageType),
		BookID:      m.BookID,
		IsRead:      m.IsRead,
		Sender:      ToUserSummaryDTO(m.Sender),
		Book:        ToBookSummaryDTO(m.Book),
		CreatedAt:   m.CreatedAt,
	}
}

// ToConversationResponse converts a domain.ConversationOverview to its DTO.
func ToConversationResponse(c *domain.ConversationOverview) ConversationResponse {
	resp := ConversationResponse{
		ConversationID: c.ConversationID,
		OtherUser:      *ToUserSummaryDTO(&c.OtherUser),
		UnreadCount:    c.UnreadCount,
		LastMessageAt:  c.LastMessageAt,
	}
	if c.LastMessage != nil {
		msg := ToMessageResponse(c.LastMessage)
		resp.LastMessage = &msg
	}
	return resp
}
