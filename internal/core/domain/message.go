package domain

import "time"

// MessageType distinguishes plain text from book-card attachments.
type MessageType string

const (
	MessageText     MessageType = "TEXT"
	MessageBookCard MessageType = "BOOK_CARD"
)

// Message is a direct message between two users. Loan notifications are
// ordinary messages sent from the acting admin to the borrower.
type Message struct {
	MessageID   string      `json:"messageID"` // Primary Key (UUID)
	SenderID    string      `json:"senderID"`
	ReceiverID  string      `json:"receiverID"`
	Content     string      `json:"content"`
	MessageType MessageType `json:"messageType"`
	BookID      *string     `json:"bookID,omitempty"`
	IsRead      bool        `json:"isRead"`
	CreatedAt   time.Time   `json:"createdAt"`

	Sender *UserSummary `json:"sender,omitempty"`
	Book   *BookSummary `json:"book,omitempty"`
}

// Conversation pairs two users and tracks message recency.
type Conversation struct {
	ConversationID string    `json:"conversationID"` // Primary Key (UUID)
	Participant1ID string    `json:"participant1ID"`
	Participant2ID string    `json:"participant2ID"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationOverview is a conversation seen from one participant's side.
type ConversationOverview struct {
	ConversationID string      `json:"conversationID"`
	OtherUser      UserSummary `json:"otherUser"`
	LastMessage    *Message    `json:"lastMessage,omitempty"`
	UnreadCount    int         `json:"unreadCount"`
	LastMessageAt  time.Time   `json:"lastMessageAt"`
}
