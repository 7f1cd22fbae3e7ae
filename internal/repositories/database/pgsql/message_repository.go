package pgsql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
)

type PgxMessageRepository struct {
	BaseRepository
}

// newPgxMessageRepository creates a new repository for messages and
// conversations.
func newPgxMessageRepository(pool *pgxpool.Pool) portsrepo.MessageRepositoryFacade {
	return &PgxMessageRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMessageRepository implements portsrepo.MessageRepositoryFacade
var _ portsrepo.MessageRepositoryFacade = (*PgxMessageRepository)(nil)

const messageSelectColumns = `
	msg.message_id, msg.sender_id, msg.receiver_id, msg.content, msg.message_type,
	msg.book_id, msg.is_read, msg.created_at,
	s.user_id, s.name, s.email, s.avatar_url,
	b.book_id, b.title, b.author, b.cover_url, b.isbn`

const messageJoins = `
	FROM messages msg
	JOIN users s ON s.user_id = msg.sender_id
	LEFT JOIN books b ON b.book_id = msg.book_id`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	var sender domain.UserSummary
	var bookID, bookTitle, bookAuthor *string
	var bookCover, bookISBN *string

	err := row.Scan(
		&msg.MessageID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.MessageType,
		&msg.BookID, &msg.IsRead, &msg.CreatedAt,
		&sender.UserID, &sender.Name, &sender.Email, &sender.AvatarURL,
		&bookID, &bookTitle, &bookAuthor, &bookCover, &bookISBN,
	)
	if err != nil {
		return nil, err
	}
	msg.Sender = &sender
	if bookID != nil {
		msg.Book = &domain.BookSummary{
			BookID:   *bookID,
			Title:    *bookTitle,
			Author:   *bookAuthor,
			CoverURL: bookCover,
			ISBN:     bookISBN,
		}
	}
	return &msg, nil
}

// SaveMessage persists a message in one transaction with the conversation
// upsert: the sender/receiver pair's conversation is created on first contact,
// then its last-message time is bumped.
func (r *PgxMessageRepository) SaveMessage(ctx context.Context, message domain.Message) (*domain.Message, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Participants are stored in a normalized order so each pair has exactly
	// one conversation row regardless of who wrote first.
	var conversationID string
	findConv := `
		SELECT conversation_id FROM conversations
		WHERE participant1_id = LEAST($1, $2) AND participant2_id = GREATEST($1, $2);
	`
	err = tx.QueryRow(ctx, findConv, message.SenderID, message.ReceiverID).Scan(&conversationID)
	if errors.Is(err, pgx.ErrNoRows) {
		conversationID = uuid.NewString()
		createConv := `
			INSERT INTO conversations (conversation_id, participant1_id, participant2_id, last_message_at, created_at)
			VALUES ($1, LEAST($2, $3), GREATEST($2, $3), $4, $4);
		`
		if _, err := tx.Exec(ctx, createConv, conversationID, message.SenderID, message.ReceiverID, message.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to create conversation", err)
		}
	} else if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find conversation", err)
	} else {
		bump := `UPDATE conversations SET last_message_at = $2 WHERE conversation_id = $1;`
		if _, err := tx.Exec(ctx, bump, conversationID, message.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to update conversation", err)
		}
	}

	insert := `
		INSERT INTO messages (message_id, conversation_id, sender_id, receiver_id,
			content, message_type, book_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, insert,
		message.MessageID, conversationID, message.SenderID, message.ReceiverID,
		message.Content, message.MessageType, message.BookID, message.IsRead, message.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save message "+message.MessageID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return r.FindMessageByID(ctx, message.MessageID)
}

// FindMessageByID retrieves a single message with sender and book summaries.
func (r *PgxMessageRepository) FindMessageByID(ctx context.Context, messageID string) (*domain.Message, error) {
	query := `SELECT` + messageSelectColumns + messageJoins + ` WHERE msg.message_id = $1;`
	msg, err := scanMessage(r.Pool.QueryRow(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find message by ID "+messageID, err)
	}
	return msg, nil
}

// ListConversations retrieves a user's conversations, most recent first.
func (r *PgxMessageRepository) ListConversations(ctx context.Context, userID string) ([]domain.ConversationOverview, error) {
	query := `
		SELECT c.conversation_id, c.last_message_at,
			o.user_id, o.name, o.email, o.avatar_url,
			lm.message_id,
			(SELECT COUNT(*) FROM messages m2
			 WHERE m2.conversation_id = c.conversation_id
			   AND m2.receiver_id = $1 AND NOT m2.is_read)
		FROM conversations c
		JOIN users o ON o.user_id = CASE WHEN c.participant1_id = $1 THEN c.participant2_id ELSE c.participant1_id END
		LEFT JOIN LATERAL (
			SELECT m.message_id FROM messages m
			WHERE m.conversation_id = c.conversation_id
			ORDER BY m.created_at DESC LIMIT 1
		) lm ON TRUE
		WHERE c.participant1_id = $1 OR c.participant2_id = $1
		ORDER BY c.last_message_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list conversations", err)
	}
	defer rows.Close()

	var overviews []domain.ConversationOverview
	var lastMessageIDs []*string
	for rows.Next() {
		var ov domain.ConversationOverview
		var lastMessageID *string
		err := rows.Scan(
			&ov.ConversationID, &ov.LastMessageAt,
			&ov.OtherUser.UserID, &ov.OtherUser.Name, &ov.OtherUser.Email, &ov.OtherUser.AvatarURL,
			&lastMessageID, &ov.UnreadCount,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan conversation row", err)
		}
		overviews = append(overviews, ov)
		lastMessageIDs = append(lastMessageIDs, lastMessageID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate conversation rows", err)
	}

	for i, id := range lastMessageIDs {
		if id == nil {
			continue
		}
		msg, err := r.FindMessageByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		overviews[i].LastMessage = msg
	}
	return overviews, nil
}

// FindConversationByID retrieves a conversation.
func (r *PgxMessageRepository) FindConversationByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	query := `
		SELECT conversation_id, participant1_id, participant2_id, last_message_at, created_at
		FROM conversations WHERE conversation_id = $1;
	`
	var c domain.Conversation
	err := r.Pool.QueryRow(ctx, query, conversationID).Scan(
		&c.ConversationID, &c.Participant1ID, &c.Participant2ID, &c.LastMessageAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find conversation by ID "+conversationID, err)
	}
	return &c, nil
}

// ListConversationMessages retrieves a page of a conversation's messages in
// chronological order.
func (r *PgxMessageRepository) ListConversationMessages(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT` + messageSelectColumns + messageJoins + `
	WHERE msg.conversation_id = $1
	ORDER BY msg.created_at ASC
	LIMIT $2 OFFSET $3;`

	rows, err := r.Pool.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list conversation messages", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0, limit)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan message row", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate message rows", err)
	}
	return messages, nil
}

// MarkConversationRead marks all messages sent to userID within the
// conversation as read.
func (r *PgxMessageRepository) MarkConversationRead(ctx context.Context, conversationID, userID string) error {
	query := `
		UPDATE messages SET is_read = TRUE
		WHERE conversation_id = $1 AND receiver_id = $2 AND NOT is_read;
	`
	if _, err := r.Pool.Exec(ctx, query, conversationID, userID); err != nil {
		return apperrors.NewAppError(500, "failed to mark conversation read "+conversationID, err)
	}
	return nil
}

// MarkMessageRead marks a single message as read.
func (r *PgxMessageRepository) MarkMessageRead(ctx context.Context, messageID string) error {
	ct, err := r.Pool.Exec(ctx, `UPDATE messages SET is_read = TRUE WHERE message_id = $1;`, messageID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark message read "+messageID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountUnread counts unread messages addressed to the user.
func (r *PgxMessageRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read;`
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count unread messages", err)
	}
	return count, nil
}
