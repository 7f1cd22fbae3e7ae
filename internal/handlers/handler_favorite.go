package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/middleware"
)

// favoriteHandler handles HTTP requests for per-user book favorites.
type favoriteHandler struct {
	favoriteService portssvc.FavoriteSvcFacade
}

func newFavoriteHandler(favoriteService portssvc.FavoriteSvcFacade) *favoriteHandler {
	return &favoriteHandler{favoriteService: favoriteService}
}

// registerFavoriteRoutes registers favorite routes.
func registerFavoriteRoutes(rg *gin.RouterGroup, favoriteService portssvc.FavoriteSvcFacade) {
	h := newFavoriteHandler(favoriteService)

	favorites := rg.Group("/favorites")
	{
		favorites.GET("", h.listFavorites)
		favorites.POST("/:bookId", h.addFavorite)
		favorites.DELETE("/:bookId", h.removeFavorite)
		favorites.GET("/:bookId/check", h.checkFavorite)
	}
}

// listFavorites godoc
// @Summary List the user's favorite books
// @Tags favorites
// @Produce json
// @Success 200 {array} dto.FavoriteResponse
// @Security BearerAuth
// @Router /favorites [get]
func (h *favoriteHandler) listFavorites(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	favorites, err := h.favoriteService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	responses := make([]dto.FavoriteResponse, len(favorites))
	for i := range favorites {
		responses[i] = dto.ToFavoriteResponse(&favorites[i])
	}
	c.JSON(http.StatusOK, responses)
}

// addFavorite godoc
// @Summary Add a book to favorites
// @Tags favorites
// @Produce json
// @Param bookId path string true "Book ID"
// @Success 201 {object} dto.FavoriteResponse
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 409 {object} map[string]string "Already favorited"
// @Security BearerAuth
// @Router /favorites/{bookId} [post]
func (h *favoriteHandler) addFavorite(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	favorite, err := h.favoriteService.AddFavorite(c.Request.Context(), userID, c.Param("bookId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToFavoriteResponse(favorite))
}

// removeFavorite godoc
// @Summary Remove a book from favorites
// @Tags favorites
// @Produce json
// @Param bookId path string true "Book ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Favorite not found"
// @Security BearerAuth
// @Router /favorites/{bookId} [delete]
func (h *favoriteHandler) removeFavorite(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), userID, c.Param("bookId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

// checkFavorite godoc
// @Summary Check whether a book is favorited
// @Tags favorites
// @Produce json
// @Param bookId path string true "Book ID"
// @Success 200 {object} dto.CheckFavoriteResponse
// @Security BearerAuth
// @Router /favorites/{bookId}/check [get]
func (h *favoriteHandler) checkFavorite(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	isFavorite, err := h.favoriteService.CheckFavorite(c.Request.Context(), userID, c.Param("bookId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckFavoriteResponse{IsFavorite: isFavorite})
}
