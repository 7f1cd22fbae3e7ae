package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/utils/timeday"
)

var (
	ErrBookUnavailable    = errors.New("book has no available copies")
	ErrStockJustExhausted = errors.New("book stock just became unavailable")
	ErrDuplicateLoan      = errors.New("user already has an active loan for this book")
	ErrNotLoanOwner       = errors.New("loans can only be returned by their borrower")
)

const defaultLoanDurationDays = 7

// bookConditionLabels translate conditions for borrower notifications.
var bookConditionLabels = map[domain.BookCondition]string{
	domain.ConditionGood:    "Baik",
	domain.ConditionDamaged: "Rusak",
	domain.ConditionLost:    "Hilang",
}

// loanService runs the loan lifecycle. Every transition validates the source
// status first; stock-affecting transitions delegate to the repository so the
// counter change and the status write share one transaction.
type loanService struct {
	BaseService
	loanRepo portsrepo.LoanRepositoryFacade
	bookRepo portsrepo.BookReader
	userRepo portsrepo.UserReader
	notifier portssvc.MessageSenderSvc
	now      func() time.Time
}

// NewLoanService creates a new LoanService.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, bookRepo portsrepo.BookReader, userRepo portsrepo.UserReader, notifier portssvc.MessageSenderSvc) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Ensure loanService implements the portssvc.LoanSvcFacade interface
var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// requireStatus fails with ErrInvalidState unless the loan is in one of the
// allowed source statuses. The message names both sides.
func requireStatus(loan *domain.Loan, allowed ...domain.LoanStatus) error {
	for _, status := range allowed {
		if loan.Status == status {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, status := range allowed {
		names[i] = string(status)
	}
	return fmt.Errorf("%w: loan %s is %s, must be %s",
		apperrors.ErrInvalidState, loan.LoanID, loan.Status, strings.Join(names, " or "))
}

// notifyBorrower sends a direct message from the acting admin to the
// borrower. Failures are logged and swallowed so the committed transition is
// never rolled back by a messaging problem.
func (s *loanService) notifyBorrower(ctx context.Context, adminID, userID, title, content string, bookID string) {
	req := dto.SendMessageRequest{
		ReceiverID:  userID,
		Content:     "[YOMU] " + title + "\n\n" + content,
		MessageType: string(domain.MessageBookCard),
		BookID:      &bookID,
	}
	if _, err := s.notifier.SendMessage(ctx, adminID, req); err != nil {
		s.LogError(ctx, err, "Failed to send loan notification",
			slog.String("user_id", userID), slog.String("admin_id", adminID))
	}
}

// GetLoanByID retrieves a loan with its user/book/verifier summaries.
func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.loanRepo.FindLoanByID(ctx, loanID)
}

// ListLoans retrieves a filtered, sorted page of loans. The overdue sweep
// runs first so listed statuses are current; a sweep failure only logs.
func (s *loanService) ListLoans(ctx context.Context, params dto.ListLoansParams) (*dto.ListLoansResponse, error) {
	if _, err := s.CheckAndUpdateOverdue(ctx); err != nil {
		s.LogError(ctx, err, "Overdue sweep before listing failed")
	}

	loans, total, err := s.loanRepo.ListLoans(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	resp := dto.ToListLoansResponse(loans, params.Page, params.Limit, total)
	return &resp, nil
}

// CreateLoan opens a PENDING loan request. Stock is checked as a courtesy but
// not reserved; reservation happens at approval.
func (s *loanService) CreateLoan(ctx context.Context, userID string, req dto.CreateLoanRequest) (*domain.Loan, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.FindBookByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book.AvailableStock <= 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRuleViolation, ErrBookUnavailable)
	}

	existing, err := s.loanRepo.FindActiveLoan(ctx, userID, req.BookID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for active loan: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrDuplicateLoan)
	}

	duration := req.DurationDays
	if duration <= 0 {
		duration = defaultLoanDurationDays
	}

	now := s.now()
	loan := domain.Loan{
		LoanID:   uuid.NewString(),
		UserID:   userID,
		BookID:   req.BookID,
		LoanDate: now,
		DueDate:  now.AddDate(0, 0, duration),
		Status:   domain.LoanPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	s.GetLogger(ctx).Info("Loan requested",
		slog.String("loan_id", loan.LoanID),
		slog.String("user_id", userID),
		slog.String("book_id", req.BookID))
	return s.loanRepo.FindLoanByID(ctx, loan.LoanID)
}

// ApproveLoan reserves a copy and moves the loan PENDING -> APPROVED. When a
// concurrent approval takes the last copy the repository reports a conflict,
// nothing is written, and the loan stays PENDING.
func (s *loanService) ApproveLoan(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(loan, domain.LoanPending); err != nil {
		return nil, err
	}

	if err := s.loanRepo.ApproveLoan(ctx, loanID, loan.BookID, adminID, req.AdminNotes, s.now()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrStockJustExhausted)
		}
		return nil, err
	}

	updated, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	s.GetLogger(ctx).Info("Loan approved",
		slog.String("loan_id", loanID), slog.String("admin_id", adminID))

	content := fmt.Sprintf(
		"Permohonan peminjaman buku Anda telah disetujui.\n\nJudul Buku: %q\nBatas Pengembalian: %s",
		updated.Book.Title, updated.DueDate.In(timeday.WIB).Format("2 January 2006"))
	if req.AdminNotes != nil && *req.AdminNotes != "" {
		content += fmt.Sprintf("\n\nCatatan Admin:\n%q", *req.AdminNotes)
	}
	content += "\n\nSilakan ambil buku fisik di loket pelayanan dengan menunjukkan ID peminjaman Anda."
	s.notifyBorrower(ctx, adminID, updated.UserID, "Konfirmasi Persetujuan Peminjaman", content, updated.BookID)

	return updated, nil
}

// RejectLoan moves the loan PENDING -> REJECTED. No stock was reserved, so
// there is nothing to release.
func (s *loanService) RejectLoan(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(loan, domain.LoanPending); err != nil {
		return nil, err
	}

	if err := s.loanRepo.RejectLoan(ctx, loanID, adminID, req.AdminNotes, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	s.GetLogger(ctx).Info("Loan rejected",
		slog.String("loan_id", loanID), slog.String("admin_id", adminID))

	content := fmt.Sprintf(
		"Mohon maaf, permohonan peminjaman buku Anda tidak dapat kami proses.\n\nJudul Buku: %q",
		updated.Book.Title)
	if req.AdminNotes != nil && *req.AdminNotes != "" {
		content += fmt.Sprintf("\nAlasan Penolakan: %s", *req.AdminNotes)
	}
	content += "\n\nSilakan hubungi admin perpustakaan atau jelajahi koleksi lain di katalog YOMU."
	s.notifyBorrower(ctx, adminID, updated.UserID, "Informasi Penolakan Peminjaman", content, updated.BookID)

	return updated, nil
}

// MarkAsBorrowed records the physical handoff, APPROVED -> BORROWED.
func (s *loanService) MarkAsBorrowed(ctx context.Context, loanID, adminID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(loan, domain.LoanApproved); err != nil {
		return nil, err
	}

	if err := s.loanRepo.MarkBorrowed(ctx, loanID, adminID, s.now()); err != nil {
		return nil, err
	}

	s.GetLogger(ctx).Info("Loan marked borrowed",
		slog.String("loan_id", loanID), slog.String("admin_id", adminID))
	return s.loanRepo.FindLoanByID(ctx, loanID)
}

// RequestReturn records the borrower's return. A GOOD self-report completes
// the loan and releases the copy in one transaction; DAMAGED/LOST parks the
// loan in RETURNING with the copy still held.
func (s *loanService) RequestReturn(ctx context.Context, loanID, userID string, req dto.ReturnBookRequest) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrForbidden, ErrNotLoanOwner)
	}
	if err := requireStatus(loan, domain.LoanBorrowed, domain.LoanOverdue); err != nil {
		return nil, err
	}

	// Early returns are rejected at civil-day granularity in WIB. Overdue
	// loans are always returnable.
	now := s.now()
	if loan.Status != domain.LoanOverdue && !timeday.SameOrAfterDay(now, loan.DueDate, timeday.WIB) {
		daysLeft := timeday.DaysUntil(now, loan.DueDate, timeday.WIB)
		return nil, fmt.Errorf("%w: buku baru bisa dikembalikan pada tanggal jatuh tempo, tunggu %d hari lagi",
			apperrors.ErrRuleViolation, daysLeft)
	}

	condition := domain.BookCondition(req.BookCondition)
	if condition == domain.ConditionGood {
		if err := s.loanRepo.CompleteReturn(ctx, loanID, loan.BookID, condition, now, true); err != nil {
			return nil, err
		}
		s.GetLogger(ctx).Info("Loan returned",
			slog.String("loan_id", loanID), slog.String("condition", string(condition)))
	} else {
		if err := s.loanRepo.MarkReturning(ctx, loanID, condition, now); err != nil {
			return nil, err
		}
		s.GetLogger(ctx).Info("Loan awaiting return verification",
			slog.String("loan_id", loanID), slog.String("condition", string(condition)))
	}

	return s.loanRepo.FindLoanByID(ctx, loanID)
}

// VerifyReturn finalizes a RETURNING loan. The admin's condition overrides
// the borrower's report; the copy is released only when the final condition
// is GOOD.
func (s *loanService) VerifyReturn(ctx context.Context, loanID, adminID string, req dto.AdminActionRequest) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(loan, domain.LoanReturning); err != nil {
		return nil, err
	}

	finalCondition := domain.ConditionGood
	if loan.BookCondition != nil {
		finalCondition = *loan.BookCondition
	}
	if req.BookCondition != nil {
		finalCondition = domain.BookCondition(*req.BookCondition)
	}
	releaseStock := finalCondition == domain.ConditionGood

	now := s.now()
	err = s.loanRepo.VerifyReturn(ctx, loanID, loan.BookID, finalCondition, req.FineAmount, req.AdminNotes, adminID, releaseStock, now)
	if err != nil {
		return nil, err
	}

	updated, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	s.GetLogger(ctx).Info("Return verified",
		slog.String("loan_id", loanID),
		slog.String("admin_id", adminID),
		slog.String("final_condition", string(finalCondition)))

	// Lateness for the notification is exact-time, unlike return eligibility.
	isLate := loan.DueDate.Before(now)
	hasFine := req.FineAmount != nil && req.FineAmount.IsPositive()

	var title, content string
	if releaseStock && !isLate {
		title = "Konfirmasi Pengembalian Berhasil"
		content = fmt.Sprintf(
			"Terima kasih, transaksi Anda telah selesai. Buku diterima kembali dalam kondisi baik.\n\nJudul Buku: %q\nStatus: Dikembalikan (Tepat Waktu)",
			updated.Book.Title)
		if req.AdminNotes != nil && *req.AdminNotes != "" {
			content += fmt.Sprintf("\n\nPesan Admin:\n%q", *req.AdminNotes)
		}
	} else {
		title = "Informasi Pengembalian dengan Catatan"
		var warnings []string
		if isLate {
			warnings = append(warnings, "- Buku dikembalikan melewati batas waktu")
		}
		if !releaseStock {
			warnings = append(warnings, fmt.Sprintf("- Buku dikembalikan dalam kondisi: %s", bookConditionLabels[finalCondition]))
		}
		content = fmt.Sprintf(
			"Buku telah diterima kembali, namun ada kendala pada transaksi pengembalian Anda.\n\nJudul Buku: %q\nKondisi: %s\n\nCatatan Khusus:\n%s",
			updated.Book.Title, bookConditionLabels[finalCondition], strings.Join(warnings, "\n"))
		if hasFine {
			content += fmt.Sprintf("\n\nDenda: Rp %s", req.FineAmount.StringFixed(0))
		}
		if req.AdminNotes != nil && *req.AdminNotes != "" {
			content += fmt.Sprintf("\n\nInstruksi Admin:\n%q", *req.AdminNotes)
		}
		content += "\n\nMohon segera selesaikan administrasi pada layanan perpustakaan."
	}
	s.notifyBorrower(ctx, adminID, updated.UserID, title, content, updated.BookID)

	return updated, nil
}

// CheckAndUpdateOverdue bulk-transitions BORROWED/APPROVED loans whose due
// date fell before the start of today to OVERDUE. Idempotent: swept loans no
// longer match the filter.
func (s *loanService) CheckAndUpdateOverdue(ctx context.Context) (int64, error) {
	cutoff := timeday.StartOfDay(s.now())
	updated, err := s.loanRepo.MarkOverdueLoans(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue loans: %w", err)
	}
	if updated > 0 {
		s.GetLogger(ctx).Info("Overdue sweep applied", slog.Int64("updated", updated))
	}
	return updated, nil
}
