package services_test

import (
	"testing"

	"shelfmark/internal/adapters/persistence/repositories"
	"shelfmark/internal/core/domain"
	"shelfmark/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewMemberService(db, testFineRate)

	member, err := svc.Create(testCtx(), &services.CreateMemberInput{
		Name:       "Alice Johnson",
		Email:      "alice@example.com",
		JoinedDate: "2024-01-15",
	})
	require.NoError(t, err)

	assert.NotZero(t, member.ID)
	assert.True(t, member.IsActive)
	assert.Equal(t, "2024-01-15", member.JoinedDate.Format("2006-01-02"))

	t.Run("joined date defaults to today", func(t *testing.T) {
		member, err := svc.Create(testCtx(), &services.CreateMemberInput{
			Name:  "Bob Smith",
			Email: "bob@example.com",
		})
		require.NoError(t, err)
		assert.False(t, member.JoinedDate.IsZero())
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.Create(testCtx(), &services.CreateMemberInput{Email: "x@example.com"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := svc.Create(testCtx(), &services.CreateMemberInput{
			Name: "Carol White", Email: "not-an-email",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("malformed joined date", func(t *testing.T) {
		_, err := svc.Create(testCtx(), &services.CreateMemberInput{
			Name: "Carol White", Email: "carol@example.com", JoinedDate: "15/01/2024",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(testCtx(), &services.CreateMemberInput{
			Name: "Alice Clone", Email: "alice@example.com",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestMemberService_List(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewMemberService(db, testFineRate)

	createTestMember(t, db, "Alice Johnson", "alice@example.com", true)
	createTestMember(t, db, "Bob Smith", "bob@example.com", false)
	createTestMember(t, db, "Alicia Keys", "alicia@example.com", true)

	members, total, err := svc.List(testCtx(), repositories.MemberFilter{Name: "Ali"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, members, 2)

	inactive := false
	members, total, err = svc.List(testCtx(), repositories.MemberFilter{IsActive: &inactive}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, members, 1)
	assert.Equal(t, "Bob Smith", members[0].Name)
}

func TestMemberService_DeactivationGuard(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewMemberService(db, testFineRate)
	loans := services.NewLoanService(db, testLoanPeriodDays, testFineRate)

	book := createTestBook(t, db, "Dune", "978-0441172719", 1)
	member := createTestMember(t, db, "Alice Johnson", "alice@example.com", true)

	_, err := loans.Borrow(testCtx(), member.ID, book.ID)
	require.NoError(t, err)

	inactive := false
	assert.ErrorIs(t, svc.CanDeactivate(testCtx(), member.ID), domain.ErrHasActiveLoans)
	_, err = svc.Update(testCtx(), member.ID, &services.UpdateMemberInput{IsActive: &inactive})
	assert.ErrorIs(t, err, domain.ErrHasActiveLoans)

	_, err = loans.Return(testCtx(), member.ID, book.ID)
	require.NoError(t, err)

	updated, err := svc.Update(testCtx(), member.ID, &services.UpdateMemberInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	// Reactivation needs no guard
	active := true
	updated, err = svc.Update(testCtx(), member.ID, &services.UpdateMemberInput{IsActive: &active})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestMemberService_UpdateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewMemberService(db, testFineRate)

	member := createTestMember(t, db, "Alice Johnson", "alice@example.com", true)
	createTestMember(t, db, "Bob Smith", "bob@example.com", true)

	bad := "not-an-email"
	_, err := svc.Update(testCtx(), member.ID, &services.UpdateMemberInput{Email: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	taken := "bob@example.com"
	_, err = svc.Update(testCtx(), member.ID, &services.UpdateMemberInput{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	fresh := "alice.johnson@example.com"
	updated, err := svc.Update(testCtx(), member.ID, &services.UpdateMemberInput{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, fresh, updated.Email)
}

func TestMemberService_DeleteGuards(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewMemberService(db, testFineRate)
	loans := services.NewLoanService(db, testLoanPeriodDays, testFineRate)

	book := createTestBook(t, db, "Dune", "978-0441172719", 1)
	member := createTestMember(t, db, "Alice Johnson", "alice@example.com", true)

	_, err := loans.BorrowAsOf(testCtx(), member.ID, book.ID, date(2024, 1, 1))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(testCtx(), member.ID), domain.ErrHasActiveLoans)

	// Returned two days late: no open loans, but a $1.00 fine remains
	_, err = loans.ReturnAsOf(testCtx(), member.ID, book.ID, date(2024, 1, 17))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CanDelete(testCtx(), member.ID), domain.ErrHasUnpaidFines)
	assert.ErrorIs(t, svc.Delete(testCtx(), member.ID), domain.ErrHasUnpaidFines)

	assert.ErrorIs(t, svc.Delete(testCtx(), 999), domain.ErrMemberNotFound)
}

func TestMemberService_GetDetail(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewMemberService(db, testFineRate)
	loans := services.NewLoanService(db, testLoanPeriodDays, testFineRate)

	bookA := createTestBook(t, db, "Dune", "978-0441172719", 1)
	bookB := createTestBook(t, db, "Hyperion", "978-0553283686", 1)
	member := createTestMember(t, db, "Alice Johnson", "alice@example.com", true)

	_, err := loans.BorrowAsOf(testCtx(), member.ID, bookA.ID, date(2024, 1, 1))
	require.NoError(t, err)
	_, err = loans.BorrowAsOf(testCtx(), member.ID, bookB.ID, date(2024, 1, 1))
	require.NoError(t, err)
	_, err = loans.ReturnAsOf(testCtx(), member.ID, bookB.ID, date(2024, 1, 17))
	require.NoError(t, err)

	detail, err := svc.GetDetail(testCtx(), member.ID)
	require.NoError(t, err)

	assert.Equal(t, member.ID, detail.Member.ID)
	assert.Len(t, detail.Loans, 2)
	assert.EqualValues(t, 1, detail.ActiveLoansCount)
	// The open loan is long overdue by now; the closed one carries $1.00
	assert.GreaterOrEqual(t, detail.TotalFines, 1.00)

	_, err = svc.GetDetail(testCtx(), 999)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}
