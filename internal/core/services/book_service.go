package services

import (
	"context"
	"errors"
	"strings"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/adapters/persistence/repositories"
	"shelfmark/internal/core/domain"

	"gorm.io/gorm"
)

// BookService handles catalog business logic
type BookService struct {
	db *gorm.DB
}

// NewBookService creates a new book service
func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db}
}

// CreateBookInput represents create book input
type CreateBookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"total_copies"`
	Genre       string `json:"genre,omitempty"`
}

// Create adds a book to the catalog with all copies available
func (s *BookService) Create(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Author) == "" ||
		strings.TrimSpace(input.ISBN) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.TotalCopies == 0 {
		input.TotalCopies = 1
	}
	if input.TotalCopies < 1 {
		return nil, domain.ErrInvalidInput
	}

	bookRepo := repositories.NewBookRepository(s.db)

	if _, err := bookRepo.GetByISBN(ctx, input.ISBN); err == nil {
		return nil, domain.ErrDuplicateISBN
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	book := &models.Book{
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: input.TotalCopies,
		Genre:           input.Genre,
	}
	if err := bookRepo.Create(ctx, book); err != nil {
		return nil, storeError(err)
	}
	return book, nil
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := repositories.NewBookRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// List lists books with optional filters
func (s *BookService) List(ctx context.Context, filter repositories.BookFilter) ([]*models.Book, error) {
	return repositories.NewBookRepository(s.db).List(ctx, filter)
}

// UpdateBookInput represents a typed catalog patch; nil fields stay
// untouched. Available copies cannot be set directly: changing the total
// re-derives them from the live active-loan count.
type UpdateBookInput struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	ISBN        *string `json:"isbn"`
	TotalCopies *int    `json:"total_copies"`
	Genre       *string `json:"genre"`
}

// Update applies a catalog patch. Lowering total copies below the number
// currently checked out is rejected so available copies stay within bounds.
func (s *BookService) Update(ctx context.Context, id uint, input *UpdateBookInput) (*models.Book, error) {
	var book *models.Book

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookRepo := repositories.NewBookRepository(tx)
		loanRepo := repositories.NewLoanRepository(tx)

		var err error
		book, err = bookRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		if input.ISBN != nil && *input.ISBN != book.ISBN {
			if _, err := bookRepo.GetByISBN(ctx, *input.ISBN); err == nil {
				return domain.ErrDuplicateISBN
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			book.ISBN = *input.ISBN
		}
		if input.Title != nil {
			book.Title = *input.Title
		}
		if input.Author != nil {
			book.Author = *input.Author
		}
		if input.Genre != nil {
			book.Genre = *input.Genre
		}
		if input.TotalCopies != nil {
			if *input.TotalCopies < 1 {
				return domain.ErrInvalidInput
			}
			active, err := loanRepo.CountActiveByBook(ctx, id)
			if err != nil {
				return err
			}
			if int64(*input.TotalCopies) < active {
				return domain.ErrCopiesCheckedOut
			}
			book.TotalCopies = *input.TotalCopies
			book.AvailableCopies = *input.TotalCopies - int(active)
		}

		return bookRepo.Update(ctx, book)
	})
	if err != nil {
		return nil, storeError(err)
	}
	return book, nil
}

// CanDelete checks whether a book may be deleted. Advisory only; no state is
// mutated.
func (s *BookService) CanDelete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := repositories.NewLoanRepository(s.db).CountActiveByBook(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrHasActiveLoans
	}
	return nil
}

// Delete removes a book from the catalog unless copies are still on loan
func (s *BookService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookRepo := repositories.NewBookRepository(tx)
		loanRepo := repositories.NewLoanRepository(tx)

		if _, err := bookRepo.GetByIDForUpdate(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		active, err := loanRepo.CountActiveByBook(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return domain.ErrHasActiveLoans
		}

		return bookRepo.Delete(ctx, id)
	})
	if err != nil {
		return storeError(err)
	}
	return nil
}
