package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/middleware"
)

// messageHandler handles HTTP requests for direct messaging.
type messageHandler struct {
	messageService portssvc.MessageSvcFacade
}

func newMessageHandler(messageService portssvc.MessageSvcFacade) *messageHandler {
	return &messageHandler{messageService: messageService}
}

// registerMessageRoutes registers messaging routes.
func registerMessageRoutes(rg *gin.RouterGroup, messageService portssvc.MessageSvcFacade) {
	h := newMessageHandler(messageService)

	messages := rg.Group("/messages")
	{
		messages.POST("", h.sendMessage)
		messages.GET("/conversations", h.listConversations)
		messages.GET("/conversations/:id", h.listConversationMessages)
		messages.PUT("/:id/read", h.markAsRead)
		messages.GET("/unread-count", h.unreadCount)
	}
}

// sendMessage godoc
// @Summary Send a direct message
// @Description Sends a TEXT or BOOK_CARD message to another user
// @Tags messages
// @Accept json
// @Produce json
// @Param message body dto.SendMessageRequest true "Message payload"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} map[string]string "Self-send or missing book for BOOK_CARD"
// @Security BearerAuth
// @Router /messages [post]
func (h *messageHandler) sendMessage(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	message, err := h.messageService.SendMessage(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMessageResponse(message))
}

// listConversations godoc
// @Summary List the user's conversations
// @Description Returns conversations ordered by latest activity, with unread counts
// @Tags messages
// @Produce json
// @Success 200 {array} dto.ConversationResponse
// @Security BearerAuth
// @Router /messages/conversations [get]
func (h *messageHandler) listConversations(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	conversations, err := h.messageService.GetConversations(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// listConversationMessages godoc
// @Summary Get a conversation's messages
// @Description Returns messages in chronological order and marks them read
// @Tags messages
// @Produce json
// @Param id path string true "Conversation ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} dto.MessageResponse
// @Failure 403 {object} map[string]string "Not a participant"
// @Security BearerAuth
// @Router /messages/conversations/{id} [get]
func (h *messageHandler) listConversationMessages(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var params dto.ListMessagesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	messages, err := h.messageService.GetConversationMessages(c.Request.Context(), c.Param("id"), userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// markAsRead godoc
// @Summary Mark a message as read
// @Tags messages
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} map[string]string "Only the receiver can mark a message read"
// @Security BearerAuth
// @Router /messages/{id}/read [put]
func (h *messageHandler) markAsRead(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	message, err := h.messageService.MarkAsRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMessageResponse(message))
}

// unreadCount godoc
// @Summary Count unread messages
// @Tags messages
// @Produce json
// @Success 200 {object} dto.UnreadCountResponse
// @Security BearerAuth
// @Router /messages/unread-count [get]
func (h *messageHandler) unreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	count, err := h.messageService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: int(count)})
}
