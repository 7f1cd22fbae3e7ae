package services

import (
	"context"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

// MessageSenderSvc is the narrow send-only interface. The loan engine uses it
// as its best-effort notification sink.
type MessageSenderSvc interface {
	SendMessage(ctx context.Context, senderID string, req dto.SendMessageRequest) (*domain.Message, error)
}

// MessageSvcFacade combines all messaging operations.
type MessageSvcFacade interface {
	MessageSenderSvc

	GetConversations(ctx context.Context, userID string) ([]dto.ConversationResponse, error)
	GetConversationMessages(ctx context.Context, conversationID, userID string, params dto.ListMessagesParams) ([]dto.MessageResponse, error)
	MarkAsRead(ctx context.Context, messageID, userID string) (*domain.Message, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
}
