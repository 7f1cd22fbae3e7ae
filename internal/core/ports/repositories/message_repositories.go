package repositories

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
)

// MessageRepositoryFacade defines storage operations for direct messages and
// conversations.
type MessageRepositoryFacade interface {
	// SaveMessage persists a message and bumps the conversation's
	// last-message time in one transaction, creating the conversation first
	// when the pair has none.
	SaveMessage(ctx context.Context, message domain.Message) (*domain.Message, error)

	// FindMessageByID retrieves a single message.
	FindMessageByID(ctx context.Context, messageID string) (*domain.Message, error)

	// ListConversations retrieves a user's conversations, most recent first,
	// each with the other participant, last message and unread count.
	ListConversations(ctx context.Context, userID string) ([]domain.ConversationOverview, error)

	// FindConversationByID retrieves a conversation.
	FindConversationByID(ctx context.Context, conversationID string) (*domain.Conversation, error)

	// ListConversationMessages retrieves a page of a conversation's messages
	// in chronological order.
	ListConversationMessages(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error)

	// MarkConversationRead marks all messages sent to userID within the
	// conversation as read.
	MarkConversationRead(ctx context.Context, conversationID, userID string) error

	// MarkMessageRead marks a single message as read.
	MarkMessageRead(ctx context.Context, messageID string) error

	// CountUnread counts unread messages addressed to the user.
	CountUnread(ctx context.Context, userID string) (int64, error)
}
