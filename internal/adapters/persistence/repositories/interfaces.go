package repositories

import (
	"context"
	"time"

	"shelfmark/internal/adapters/persistence/models"
)

// BookFilter holds optional catalog list filters (partial matches)
type BookFilter struct {
	Title         string
	Author        string
	Genre         string
	AvailableOnly bool
}

// MemberFilter holds optional member list filters
type MemberFilter struct {
	Name     string
	Email    string
	IsActive *bool
}

// BookRepository defines book repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	// GetByIDForUpdate locks the book row for the duration of the enclosing
	// transaction. Callers must be inside one.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)
	List(ctx context.Context, filter BookFilter) ([]*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	List(ctx context.Context, filter MemberFilter, offset, limit int) ([]*models.Member, int64, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetActive(ctx context.Context, memberID, bookID uint) (*models.Loan, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
	CountActiveByBook(ctx context.Context, bookID uint) (int64, error)
	CountActiveByMember(ctx context.Context, memberID uint) (int64, error)
	Update(ctx context.Context, loan *models.Loan) error
}
