package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/adapters/persistence/repositories"
	"shelfmark/internal/core/domain"
	"shelfmark/internal/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanService governs the loan lifecycle: eligibility checks, copy
// reservation, fine assessment at return, and fines reporting. Borrow and
// return run as single database transactions holding a row lock on the book,
// so two concurrent borrows of the last copy cannot both succeed.
type LoanService struct {
	db             *gorm.DB
	loanPeriodDays int
	fineRatePerDay float64
}

// NewLoanService creates a new loan service
func NewLoanService(db *gorm.DB, loanPeriodDays int, fineRatePerDay float64) *LoanService {
	return &LoanService{
		db:             db,
		loanPeriodDays: loanPeriodDays,
		fineRatePerDay: fineRatePerDay,
	}
}

// Borrow opens a loan for (memberID, bookID) dated today.
func (s *LoanService) Borrow(ctx context.Context, memberID, bookID uint) (*models.Loan, error) {
	return s.BorrowAsOf(ctx, memberID, bookID, time.Now())
}

// BorrowAsOf opens a loan dated asOf. Checks run in a fixed order so error
// reporting is deterministic: member existence and activity, then book
// existence, then availability, then the duplicate-loan check. The copy is
// reserved before the duplicate check; a duplicate rolls the whole
// transaction back, releasing the reservation.
func (s *LoanService) BorrowAsOf(ctx context.Context, memberID, bookID uint, asOf time.Time) (*models.Loan, error) {
	var loan *models.Loan

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberRepo := repositories.NewMemberRepository(tx)
		bookRepo := repositories.NewBookRepository(tx)
		loanRepo := repositories.NewLoanRepository(tx)

		member, err := memberRepo.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrMemberNotFound
			}
			return err
		}
		if !member.IsActive {
			return domain.ErrMemberInactive
		}

		book, err := bookRepo.GetByIDForUpdate(ctx, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		// Reserve a copy
		if book.AvailableCopies <= 0 {
			return domain.ErrNoCopiesAvailable
		}
		book.AvailableCopies--
		if err := bookRepo.Update(ctx, book); err != nil {
			return err
		}

		_, err = loanRepo.GetActive(ctx, memberID, bookID)
		if err == nil {
			// Rollback releases the reserved copy
			return domain.ErrDuplicateActiveLoan
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		borrowed := domain.DateOnly(asOf)
		loan = &models.Loan{
			Reference:    uuid.NewString(),
			BookID:       bookID,
			MemberID:     memberID,
			BorrowedDate: borrowed,
			DueDate:      borrowed.AddDate(0, 0, s.loanPeriodDays),
		}
		return loanRepo.Create(ctx, loan)
	})
	if err != nil {
		return nil, storeError(err)
	}

	metrics.BorrowsTotal.Inc()
	return loan, nil
}

// Return closes the open loan for (memberID, bookID) dated today.
func (s *LoanService) Return(ctx context.Context, memberID, bookID uint) (*models.Loan, error) {
	return s.ReturnAsOf(ctx, memberID, bookID, time.Now())
}

// ReturnAsOf closes the open loan dated asOf. Stamping the return date,
// recording the fine, and releasing the copy happen in one transaction.
func (s *LoanService) ReturnAsOf(ctx context.Context, memberID, bookID uint, asOf time.Time) (*models.Loan, error) {
	var loan *models.Loan

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookRepo := repositories.NewBookRepository(tx)
		loanRepo := repositories.NewLoanRepository(tx)

		var err error
		loan, err = loanRepo.GetActive(ctx, memberID, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNoActiveLoan
			}
			return err
		}

		book, err := bookRepo.GetByIDForUpdate(ctx, loan.BookID)
		if err != nil {
			return err
		}

		returned := domain.DateOnly(asOf)
		fine := s.FineFor(loan.DueDate, returned)
		loan.ReturnedDate = &returned
		loan.FineAmount = &fine
		if err := loanRepo.Update(ctx, loan); err != nil {
			return err
		}

		// Release the copy. Exceeding total would mean an unpaired release;
		// abort rather than corrupt the ledger.
		if book.AvailableCopies >= book.TotalCopies {
			return fmt.Errorf("%w: release would exceed total copies for book %d",
				domain.ErrInternalServer, book.ID)
		}
		book.AvailableCopies++
		return bookRepo.Update(ctx, book)
	})
	if err != nil {
		return nil, storeError(err)
	}

	metrics.ReturnsTotal.Inc()
	if loan.FineAmount != nil && *loan.FineAmount > 0 {
		metrics.FinesAssessedTotal.Add(*loan.FineAmount)
	}
	return loan, nil
}

// FineFor computes the fine owed for a loan due on dueDate and returned on
// returnedDate: the rate per whole day overdue, zero when on time. Partial
// days round down.
func (s *LoanService) FineFor(dueDate, returnedDate time.Time) float64 {
	overdueDays := domain.DaysBetween(dueDate, returnedDate)
	if overdueDays <= 0 {
		return 0
	}
	return float64(overdueDays) * s.fineRatePerDay
}

// ListActiveLoans gets a member's open loans
func (s *LoanService) ListActiveLoans(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	memberRepo := repositories.NewMemberRepository(s.db)
	loanRepo := repositories.NewLoanRepository(s.db)

	if _, err := memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	return loanRepo.ListActiveByMember(ctx, memberID)
}

// MemberFines computes a member's outstanding fines as of today.
func (s *LoanService) MemberFines(ctx context.Context, memberID uint) (*FinesSummary, error) {
	return s.MemberFinesAsOf(ctx, memberID, time.Now())
}

// MemberFinesAsOf computes a member's outstanding fines as of a given date.
func (s *LoanService) MemberFinesAsOf(ctx context.Context, memberID uint, asOf time.Time) (*FinesSummary, error) {
	memberRepo := repositories.NewMemberRepository(s.db)
	loanRepo := repositories.NewLoanRepository(s.db)

	if _, err := memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	loans, err := loanRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	summary := CalculateFines(loans, asOf, s.fineRatePerDay)
	return &summary, nil
}

// storeError passes domain errors through unchanged and tags anything else
// the store reported (constraint violation, serialization failure) as a
// retryable conflict without losing the cause.
func storeError(err error) error {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrMemberInactive),
		errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrNoCopiesAvailable),
		errors.Is(err, domain.ErrDuplicateActiveLoan),
		errors.Is(err, domain.ErrNoActiveLoan),
		errors.Is(err, domain.ErrHasActiveLoans),
		errors.Is(err, domain.ErrHasUnpaidFines),
		errors.Is(err, domain.ErrDuplicateISBN),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrCopiesCheckedOut),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInternalServer):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrStoreConflict, err)
	}
}
