package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/adapters/persistence/repositories"
	"shelfmark/internal/core/domain"
	"shelfmark/internal/core/services"
	"shelfmark/internal/pkg/pagination"
	"shelfmark/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List lists members with optional filters and pagination. Returns basic
// profiles only; GET /members/:id includes loans and fines.
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.MemberFilter{
		Name:  c.Query("name"),
		Email: c.Query("email"),
	}
	if v := c.Query("is_active"); v != "" {
		isActive, err := strconv.ParseBool(v)
		if err != nil {
			return response.BadRequest(c, "Invalid is_active filter")
		}
		filter.IsActive = &isActive
	}

	members, total, err := h.memberService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	resp := make([]*models.MemberResponse, 0, len(members))
	for _, member := range members {
		resp = append(resp, member.ToResponse())
	}

	return response.Success(c, "Members retrieved successfully",
		pagination.NewResponse(resp, params, total))
}

// Create registers a new member
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var input services.CreateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Name and email are required; joined_date must be YYYY-MM-DD")
		case errors.Is(err, domain.ErrInvalidEmail):
			return response.BadRequest(c, "Invalid email address")
		case errors.Is(err, domain.ErrDuplicateEmail):
			return response.Conflict(c, "Member with email "+input.Email+" already exists")
		case errors.Is(err, domain.ErrStoreConflict):
			return response.Conflict(c, "Store conflict, please retry")
		default:
			return response.InternalServerError(c, "Failed to create member")
		}
	}

	return response.Created(c, "Member created successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// GetByID gets a member with complete loan history and fines
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	detail, err := h.memberService.GetDetail(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	loans := make([]*models.LoanResponse, 0, len(detail.Loans))
	for _, loan := range detail.Loans {
		loans = append(loans, loan.ToResponse())
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member":             detail.Member.ToResponse(),
		"loans":              loans,
		"active_loans_count": detail.ActiveLoansCount,
		"total_fines":        detail.TotalFines,
	})
}

// Update applies a member patch
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var input services.UpdateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Update(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrHasActiveLoans):
			return response.BadRequest(c, "Cannot deactivate member with active loans. Please return all books first.")
		case errors.Is(err, domain.ErrInvalidEmail):
			return response.BadRequest(c, "Invalid email address")
		case errors.Is(err, domain.ErrDuplicateEmail):
			return response.Conflict(c, "Member with this email already exists")
		case errors.Is(err, domain.ErrStoreConflict):
			return response.Conflict(c, "Store conflict, please retry")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}

	return response.Success(c, "Member updated successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// Delete removes a member
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	if err := h.memberService.Delete(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrHasActiveLoans):
			return response.BadRequest(c, "Cannot delete member with active loans. Please return all books first.")
		case errors.Is(err, domain.ErrHasUnpaidFines):
			return response.BadRequest(c, "Cannot delete member with unpaid fines. Please clear all fines first.")
		case errors.Is(err, domain.ErrStoreConflict):
			return response.Conflict(c, "Store conflict, please retry")
		default:
			return response.InternalServerError(c, "Failed to delete member")
		}
	}

	return response.Success(c, "Member deleted successfully", fiber.Map{
		"member_id": uint(id),
	})
}

// memberIDParam parses the member_id route parameter
func memberIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("member_id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid member ID")
	}
	return uint(id), nil
}
