package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/adapters/persistence/repositories"
	"shelfmark/internal/core/domain"

	"gorm.io/gorm"
)

// MemberService handles member business logic
type MemberService struct {
	db             *gorm.DB
	fineRatePerDay float64
}

// NewMemberService creates a new member service
func NewMemberService(db *gorm.DB, fineRatePerDay float64) *MemberService {
	return &MemberService{db: db, fineRatePerDay: fineRatePerDay}
}

// CreateMemberInput represents create member input
type CreateMemberInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	JoinedDate string `json:"joined_date,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
}

// Create registers a new member. JoinedDate defaults to today and IsActive to
// true when omitted.
func (s *MemberService) Create(ctx context.Context, input *CreateMemberInput) (*models.Member, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}

	joined := domain.DateOnly(time.Now())
	if input.JoinedDate != "" {
		parsed, err := time.Parse("2006-01-02", input.JoinedDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		joined = domain.DateOnly(parsed)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	memberRepo := repositories.NewMemberRepository(s.db)

	if _, err := memberRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member := &models.Member{
		Name:       input.Name,
		Email:      input.Email,
		JoinedDate: joined,
		IsActive:   isActive,
	}
	if err := memberRepo.Create(ctx, member); err != nil {
		return nil, storeError(err)
	}
	return member, nil
}

// GetByID gets a member by ID
func (s *MemberService) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	member, err := repositories.NewMemberRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// MemberDetail represents a member profile with loan history and fines
type MemberDetail struct {
	Member           *models.Member `json:"member"`
	Loans            []*models.Loan `json:"loans"`
	ActiveLoansCount int64          `json:"active_loans_count"`
	TotalFines       float64        `json:"total_fines"`
}

// GetDetail gets a member with complete loan history, active-loan count and
// total outstanding fines as of today
func (s *MemberService) GetDetail(ctx context.Context, id uint) (*MemberDetail, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	loanRepo := repositories.NewLoanRepository(s.db)
	loans, err := loanRepo.ListByMember(ctx, id)
	if err != nil {
		return nil, err
	}
	activeCount, err := loanRepo.CountActiveByMember(ctx, id)
	if err != nil {
		return nil, err
	}

	fines := CalculateFines(loans, time.Now(), s.fineRatePerDay)

	return &MemberDetail{
		Member:           member,
		Loans:            loans,
		ActiveLoansCount: activeCount,
		TotalFines:       domain.RoundMoney(fines.Total),
	}, nil
}

// List lists members with optional filters and pagination
func (s *MemberService) List(ctx context.Context, filter repositories.MemberFilter, offset, limit int) ([]*models.Member, int64, error) {
	return repositories.NewMemberRepository(s.db).List(ctx, filter, offset, limit)
}

// UpdateMemberInput represents a typed member patch; nil fields stay
// untouched
type UpdateMemberInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

// Update applies a member patch. Deactivation is blocked while the member has
// open loans; a changed email must be well formed and unique.
func (s *MemberService) Update(ctx context.Context, id uint, input *UpdateMemberInput) (*models.Member, error) {
	var member *models.Member

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberRepo := repositories.NewMemberRepository(tx)
		loanRepo := repositories.NewLoanRepository(tx)

		var err error
		member, err = memberRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrMemberNotFound
			}
			return err
		}

		if input.IsActive != nil && !*input.IsActive && member.IsActive {
			active, err := loanRepo.CountActiveByMember(ctx, id)
			if err != nil {
				return err
			}
			if active > 0 {
				return domain.ErrHasActiveLoans
			}
		}

		if input.Email != nil && *input.Email != member.Email {
			if err := validateEmail(*input.Email); err != nil {
				return err
			}
			if _, err := memberRepo.GetByEmail(ctx, *input.Email); err == nil {
				return domain.ErrDuplicateEmail
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			member.Email = *input.Email
		}
		if input.Name != nil {
			member.Name = *input.Name
		}
		if input.IsActive != nil {
			member.IsActive = *input.IsActive
		}

		return memberRepo.Update(ctx, member)
	})
	if err != nil {
		return nil, storeError(err)
	}
	return member, nil
}

// CanDeactivate checks whether a member may be deactivated. Advisory only.
func (s *MemberService) CanDeactivate(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := repositories.NewLoanRepository(s.db).CountActiveByMember(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrHasActiveLoans
	}
	return nil
}

// CanDelete checks whether a member may be deleted: no open loans and no
// outstanding fines. Advisory only.
func (s *MemberService) CanDelete(ctx context.Context, id uint) error {
	if err := s.CanDeactivate(ctx, id); err != nil {
		return err
	}

	loans, err := repositories.NewLoanRepository(s.db).ListByMember(ctx, id)
	if err != nil {
		return err
	}
	if fines := CalculateFines(loans, time.Now(), s.fineRatePerDay); fines.Total > 0 {
		return domain.ErrHasUnpaidFines
	}
	return nil
}

// Delete removes a member unless open loans or unpaid fines remain
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberRepo := repositories.NewMemberRepository(tx)
		loanRepo := repositories.NewLoanRepository(tx)

		if _, err := memberRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrMemberNotFound
			}
			return err
		}

		active, err := loanRepo.CountActiveByMember(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return domain.ErrHasActiveLoans
		}

		loans, err := loanRepo.ListByMember(ctx, id)
		if err != nil {
			return err
		}
		if fines := CalculateFines(loans, time.Now(), s.fineRatePerDay); fines.Total > 0 {
			return domain.ErrHasUnpaidFines
		}

		return memberRepo.Delete(ctx, id)
	})
	if err != nil {
		return storeError(err)
	}
	return nil
}

// validateEmail rejects addresses net/mail cannot parse
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.ErrInvalidEmail
	}
	return nil
}
