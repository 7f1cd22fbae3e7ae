package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

var (
	ErrSelfMessage        = errors.New("cannot send a message to yourself")
	ErrNotParticipant     = errors.New("user is not part of this conversation")
	ErrNotMessageReceiver = errors.New("only the receiver can mark a message as read")
	ErrBookCardNeedsBook  = errors.New("BOOK_CARD messages require a bookId")
)

// messageService handles direct messages and conversations.
type messageService struct {
	BaseService
	messageRepo portsrepo.MessageRepositoryFacade
	userRepo    portsrepo.UserReader
	bookRepo    portsrepo.BookReader
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo portsrepo.MessageRepositoryFacade, userRepo portsrepo.UserReader, bookRepo portsrepo.BookReader) portssvc.MessageSvcFacade {
	return &messageService{messageRepo: messageRepo, userRepo: userRepo, bookRepo: bookRepo}
}

// Ensure messageService implements the portssvc.MessageSvcFacade interface
var _ portssvc.MessageSvcFacade = (*messageService)(nil)

// SendMessage delivers a direct message from sender to receiver.
func (s *messageService) SendMessage(ctx context.Context, senderID string, req dto.SendMessageRequest) (*domain.Message, error) {
	if senderID == req.ReceiverID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrSelfMessage)
	}
	if _, err := s.userRepo.FindUserByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: receiver %s does not exist", apperrors.ErrValidation, req.ReceiverID)
		}
		return nil, err
	}

	messageType := domain.MessageText
	if req.MessageType != "" {
		messageType = domain.MessageType(req.MessageType)
	}
	if messageType == domain.MessageBookCard {
		if req.BookID == nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrBookCardNeedsBook)
		}
		if _, err := s.bookRepo.FindBookByID(ctx, *req.BookID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: book %s does not exist", apperrors.ErrValidation, *req.BookID)
			}
			return nil, err
		}
	}

	message := domain.Message{
		MessageID:   uuid.NewString(),
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Content:     req.Content,
		MessageType: messageType,
		BookID:      req.BookID,
		CreatedAt:   time.Now(),
	}

	saved, err := s.messageRepo.SaveMessage(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.GetLogger(ctx).Info("Message sent",
		slog.String("message_id", saved.MessageID),
		slog.String("sender_id", senderID),
		slog.String("receiver_id", req.ReceiverID))
	return saved, nil
}

// GetConversations lists the user's conversations, most recent first.
func (s *messageService) GetConversations(ctx context.Context, userID string) ([]dto.ConversationResponse, error) {
	overviews, err := s.messageRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	responses := make([]dto.ConversationResponse, len(overviews))
	for i := range overviews {
		responses[i] = dto.ToConversationResponse(&overviews[i])
	}
	return responses, nil
}

// GetConversationMessages pages through a conversation's history and marks
// the caller's incoming messages as read.
func (s *messageService) GetConversationMessages(ctx context.Context, conversationID, userID string, params dto.ListMessagesParams) ([]dto.MessageResponse, error) {
	conversation, err := s.messageRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.Participant1ID != userID && conversation.Participant2ID != userID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrForbidden, ErrNotParticipant)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := 0
	if params.Page > 1 {
		offset = (params.Page - 1) * limit
	}

	messages, err := s.messageRepo.ListConversationMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation messages: %w", err)
	}

	if err := s.messageRepo.MarkConversationRead(ctx, conversationID, userID); err != nil {
		s.LogError(ctx, err, "Failed to mark conversation read", slog.String("conversation_id", conversationID))
	}

	responses := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = dto.ToMessageResponse(&messages[i])
	}
	return responses, nil
}

// MarkAsRead marks one message as read; only its receiver may do so.
func (s *messageService) MarkAsRead(ctx context.Context, messageID, userID string) (*domain.Message, error) {
	message, err := s.messageRepo.FindMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.ReceiverID != userID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrForbidden, ErrNotMessageReceiver)
	}
	if err := s.messageRepo.MarkMessageRead(ctx, messageID); err != nil {
		return nil, err
	}
	message.IsRead = true
	return message, nil
}

// GetUnreadCount counts unread messages addressed to the user.
func (s *messageService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}
