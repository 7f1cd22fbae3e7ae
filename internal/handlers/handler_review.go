package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/middleware"
)

// reviewHandler handles HTTP requests for book reviews.
type reviewHandler struct {
	reviewService portssvc.ReviewSvcFacade
}

func newReviewHandler(reviewService portssvc.ReviewSvcFacade) *reviewHandler {
	return &reviewHandler{reviewService: reviewService}
}

// registerReviewRoutes registers review routes. Listing and creating hang off
// the book resource; deletion addresses the review directly.
func registerReviewRoutes(rg *gin.RouterGroup, reviewService portssvc.ReviewSvcFacade) {
	h := newReviewHandler(reviewService)

	rg.GET("/books/:id/reviews", h.listBookReviews)
	rg.POST("/books/:id/reviews", h.createReview)
	rg.DELETE("/reviews/:id", h.deleteReview)
}

// listBookReviews godoc
// @Summary List a book's reviews
// @Description Returns the reviews with the book's aggregate rating
// @Tags reviews
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} dto.ListReviewsResponse
// @Failure 404 {object} map[string]string "Book not found"
// @Security BearerAuth
// @Router /books/{id}/reviews [get]
func (h *reviewHandler) listBookReviews(c *gin.Context) {
	result, err := h.reviewService.ListBookReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// createReview godoc
// @Summary Review a book
// @Description Adds the user's review; one review per user per book
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param review body dto.CreateReviewRequest true "Rating and comment"
// @Success 201 {object} dto.ReviewResponse
// @Failure 409 {object} map[string]string "Already reviewed"
// @Security BearerAuth
// @Router /books/{id}/reviews [post]
func (h *reviewHandler) createReview(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToReviewResponse(review))
}

// deleteReview godoc
// @Summary Delete a review
// @Description Authors delete their own reviews; admins can delete any
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Review not found"
// @Security BearerAuth
// @Router /reviews/{id} [delete]
func (h *reviewHandler) deleteReview(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)
	isAdmin := role == string(domain.RoleAdmin)
	if err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id"), userID, isAdmin); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
