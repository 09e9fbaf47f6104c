package handlers

import (
	"errors"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/core/domain"
	"shelfmark/internal/core/services"
	"shelfmark/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles circulation endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// BorrowRequest is the borrow endpoint payload
type BorrowRequest struct {
	MemberID uint `json:"member_id"`
	BookID   uint `json:"book_id"`
}

// Borrow checks a copy of a book out to a member
func (h *LoanHandler) Borrow(c *fiber.Ctx) error {
	var req BorrowRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MemberID == 0 || req.BookID == 0 {
		return response.BadRequest(c, "member_id and book_id are required")
	}

	loan, err := h.loanService.Borrow(c.Context(), req.MemberID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrMemberInactive):
			return response.BadRequest(c, "Member account is inactive")
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrNoCopiesAvailable):
			return response.Conflict(c, "No copies of this book are currently available")
		case errors.Is(err, domain.ErrDuplicateActiveLoan):
			return response.Conflict(c, "Member already has an active loan for this book")
		case errors.Is(err, domain.ErrStoreConflict):
			return response.Conflict(c, "Store conflict, please retry")
		default:
			return response.InternalServerError(c, "Failed to borrow book")
		}
	}

	return response.Created(c, "Book borrowed successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// ReturnRequest is the return endpoint payload
type ReturnRequest struct {
	MemberID uint `json:"member_id"`
	BookID   uint `json:"book_id"`
}

// Return checks a borrowed copy back in and assesses any overdue fine
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	var req ReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MemberID == 0 || req.BookID == 0 {
		return response.BadRequest(c, "member_id and book_id are required")
	}

	loan, err := h.loanService.Return(c.Context(), req.MemberID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoActiveLoan):
			return response.BadRequest(c, "No active loan found for this member and book")
		case errors.Is(err, domain.ErrStoreConflict):
			return response.Conflict(c, "Store conflict, please retry")
		default:
			return response.InternalServerError(c, "Failed to return book")
		}
	}

	return response.Success(c, "Book returned successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// GetActiveLoans lists a member's active loans
func (h *LoanHandler) GetActiveLoans(c *fiber.Ctx) error {
	memberID, err := memberIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	loans, err := h.loanService.ListActiveLoans(c.Context(), memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to list active loans")
	}

	resp := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		resp = append(resp, loan.ToResponse())
	}

	return response.Success(c, "Active loans retrieved successfully", fiber.Map{
		"member_id": memberID,
		"loans":     resp,
		"count":     len(resp),
	})
}

// GetFines reports a member's fine position as of today
func (h *LoanHandler) GetFines(c *fiber.Ctx) error {
	memberID, err := memberIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	summary, err := h.loanService.MemberFines(c.Context(), memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to calculate fines")
	}

	rounded := summary.Rounded()
	return response.Success(c, "Fines calculated successfully", fiber.Map{
		"member_id":             memberID,
		"total_fines":           rounded.Total,
		"active_overdue_loans":  rounded.ActiveOverdueCount,
		"unpaid_returned_fines": rounded.UnpaidReturnedTotal,
	})
}
