package handlers

import (
	"errors"
	"strconv"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/adapters/persistence/repositories"
	"shelfmark/internal/core/domain"
	"shelfmark/internal/core/services"
	"shelfmark/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// List lists books with optional partial-match filters
func (h *BookHandler) List(c *fiber.Ctx) error {
	filter := repositories.BookFilter{
		Title:         c.Query("title"),
		Author:        c.Query("author"),
		Genre:         c.Query("genre"),
		AvailableOnly: c.Query("available_only") == "true",
	}

	books, err := h.bookService.List(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	resp := make([]*models.BookResponse, 0, len(books))
	for _, book := range books {
		resp = append(resp, book.ToResponse())
	}

	return response.Success(c, "Books retrieved successfully", fiber.Map{
		"books": resp,
	})
}

// Create adds a book to the catalog
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var input services.CreateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Title, author and ISBN are required; total copies must be at least 1")
		case errors.Is(err, domain.ErrDuplicateISBN):
			return response.Conflict(c, "Book with ISBN "+input.ISBN+" already exists")
		case errors.Is(err, domain.ErrStoreConflict):
			return response.Conflict(c, "Store conflict, please retry")
		default:
			return response.InternalServerError(c, "Failed to create book")
		}
	}

	return response.Created(c, "Book created successfully", fiber.Map{
		"book": book.ToResponse(),
	})
}

// GetByID gets a book by ID
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", fiber.Map{
		"book": book.ToResponse(),
	})
}

// Update applies a catalog patch to a book
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	var input services.UpdateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Total copies must be at least 1")
		case errors.Is(err, domain.ErrCopiesCheckedOut):
			return response.BadRequest(c, "Cannot reduce total copies below the number currently checked out")
		case errors.Is(err, domain.ErrDuplicateISBN):
			return response.Conflict(c, "Book with this ISBN already exists")
		case errors.Is(err, domain.ErrStoreConflict):
			return response.Conflict(c, "Store conflict, please retry")
		default:
			return response.InternalServerError(c, "Failed to update book")
		}
	}

	return response.Success(c, "Book updated successfully", fiber.Map{
		"book": book.ToResponse(),
	})
}

// Delete removes a book from the catalog
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.Delete(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrHasActiveLoans):
			return response.BadRequest(c, "Cannot delete book with active loans. Please wait for all copies to be returned.")
		case errors.Is(err, domain.ErrStoreConflict):
			return response.Conflict(c, "Store conflict, please retry")
		default:
			return response.InternalServerError(c, "Failed to delete book")
		}
	}

	return response.Success(c, "Book deleted successfully", fiber.Map{
		"book_id": uint(id),
	})
}
