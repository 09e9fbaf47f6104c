package repositories

import (
	"context"
	"time"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetActive gets the open loan for a (member, book) pair, if any
func (r *loanRepository) GetActive(ctx context.Context, memberID, bookID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND book_id = ? AND returned_date IS NULL", memberID, bookID).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByMember gets all loans for a member, open and closed
func (r *loanRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("member_id = ?", memberID).
		Order("borrowed_date DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// ListActiveByMember gets a member's open loans
func (r *loanRepository) ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("member_id = ? AND returned_date IS NULL", memberID).
		Order("due_date ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// ListOverdue gets all open loans whose due date is strictly before asOf
func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		Where("returned_date IS NULL AND due_date < ?", domain.DateOnly(asOf)).
		Order("due_date ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// CountActiveByBook counts open loans referencing a book
func (r *loanRepository) CountActiveByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("book_id = ? AND returned_date IS NULL", bookID).
		Count(&count).Error
	return count, err
}

// CountActiveByMember counts open loans referencing a member
func (r *loanRepository) CountActiveByMember(ctx context.Context, memberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND returned_date IS NULL", memberID).
		Count(&count).Error
	return count, err
}

// Update updates a loan
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}
