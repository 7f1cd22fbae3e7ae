package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/middleware"
)

// loanHandler handles HTTP requests for the loan lifecycle.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(loanService portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: loanService}
}

// registerLoanRoutes registers loan routes. Borrowers create, list their own
// and return loans; admins run the approval and verification transitions.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.GET("/my", h.listMyLoans)
		loans.POST("", h.createLoan)
		loans.GET("/:id", h.getLoan)
		loans.PUT("/:id/return", h.requestReturn)

		admin := loans.Group("", middleware.RequireAdmin())
		{
			admin.GET("", h.listLoans)
			admin.GET("/pending-verification", h.listPendingVerification)
			admin.GET("/overdue", h.listOverdue)
			admin.POST("/check-overdue", h.checkOverdue)
			admin.PUT("/:id/approve", h.approveLoan)
			admin.PUT("/:id/reject", h.rejectLoan)
			admin.PUT("/:id/borrowed", h.markBorrowed)
			admin.PUT("/:id/verify-return", h.verifyReturn)
		}
	}
}

// listLoans godoc
// @Summary List all loans
// @Description Returns a filtered, sorted page of loans across all users
// @Tags loans
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED, BORROWED, RETURNING, RETURNED, OVERDUE)
// @Param userId query string false "Filter by borrower"
// @Param bookId query string false "Filter by book"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param sortBy query string false "Sort field" Enums(loanDate, dueDate, createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.ListLoansResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.loanService.ListLoans(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// listPendingVerification godoc
// @Summary List loans awaiting return verification
// @Tags loans
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListLoansResponse
// @Security BearerAuth
// @Router /loans/pending-verification [get]
func (h *loanHandler) listPendingVerification(c *gin.Context) {
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	params.Status = "RETURNING"
	result, err := h.loanService.ListLoans(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// listOverdue godoc
// @Summary List overdue loans
// @Tags loans
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListLoansResponse
// @Security BearerAuth
// @Router /loans/overdue [get]
func (h *loanHandler) listOverdue(c *gin.Context) {
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	params.Status = "OVERDUE"
	result, err := h.loanService.ListLoans(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// checkOverdue godoc
// @Summary Run the overdue sweep
// @Description Transitions time-expired active loans to OVERDUE
// @Tags loans
// @Produce json
// @Success 200 {object} dto.OverdueSweepResponse
// @Security BearerAuth
// @Router /loans/check-overdue [post]
func (h *loanHandler) checkOverdue(c *gin.Context) {
	updated, err := h.loanService.CheckAndUpdateOverdue(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OverdueSweepResponse{
		Updated: updated,
		Message: "Overdue check completed",
	})
}

// listMyLoans godoc
// @Summary List the authenticated user's loans
// @Tags loans
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED, BORROWED, RETURNING, RETURNED, OVERDUE)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListLoansResponse
// @Security BearerAuth
// @Router /loans/my [get]
func (h *loanHandler) listMyLoans(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	params.UserID = userID
	result, err := h.loanService.ListLoans(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// createLoan godoc
// @Summary Request a book loan
// @Description Opens a PENDING loan request; stock is reserved at approval
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan request"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Book out of stock"
// @Failure 409 {object} map[string]string "Active loan for this book already exists"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	loan, err := h.loanService.CreateLoan(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// getLoan godoc
// @Summary Get a loan by ID
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	loan, err := h.loanService.GetLoanByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// requestReturn godoc
// @Summary Return a borrowed book
// @Description GOOD condition completes the loan; DAMAGED/LOST awaits admin verification
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param return body dto.ReturnBookRequest true "Reported book condition"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan not returnable yet"
// @Failure 403 {object} map[string]string "Not the borrower"
// @Security BearerAuth
// @Router /loans/{id}/return [put]
func (h *loanHandler) requestReturn(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var req dto.ReturnBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	loan, err := h.loanService.RequestReturn(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// approveLoan godoc
// @Summary Approve a pending loan
// @Description Reserves one copy of the book atomically with the approval
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param action body dto.AdminActionRequest false "Optional admin notes"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan is not PENDING"
// @Failure 409 {object} map[string]string "Stock exhausted"
// @Security BearerAuth
// @Router /loans/{id}/approve [put]
func (h *loanHandler) approveLoan(c *gin.Context) {
	h.adminAction(c, h.loanService.ApproveLoan)
}

// rejectLoan godoc
// @Summary Reject a pending loan
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param action body dto.AdminActionRequest false "Optional admin notes"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan is not PENDING"
// @Security BearerAuth
// @Router /loans/{id}/reject [put]
func (h *loanHandler) rejectLoan(c *gin.Context) {
	h.adminAction(c, h.loanService.RejectLoan)
}

// markBorrowed godoc
// @Summary Mark an approved loan as picked up
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan is not APPROVED"
// @Security BearerAuth
// @Router /loans/{id}/borrowed [put]
func (h *loanHandler) markBorrowed(c *gin.Context) {
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	loan, err := h.loanService.MarkAsBorrowed(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// verifyReturn godoc
// @Summary Verify a reported return
// @Description Finalizes a RETURNING loan, optionally overriding condition and setting a fine
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param action body dto.AdminActionRequest false "Condition override, fine and notes"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan is not RETURNING"
// @Security BearerAuth
// @Router /loans/{id}/verify-return [put]
func (h *loanHandler) verifyReturn(c *gin.Context) {
	h.adminAction(c, h.loanService.VerifyReturn)
}

// loanAdminFn is the shared signature of the admin loan transitions.
type loanAdminFn func(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error)

// adminAction binds the shared admin request shape and dispatches to the
// given loan transition. An empty body is treated as no overrides.
func (h *loanHandler) adminAction(c *gin.Context, fn loanAdminFn) {
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var req dto.AdminActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	loan, err := fn(c.Request.Context(), c.Param("id"), adminID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}
