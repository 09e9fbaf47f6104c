package services_test

import (
	"testing"

	"shelfmark/internal/core/services"
	"shelfmark/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueService_Sweep(t *testing.T) {
	db := newTestDB(t)
	loans := services.NewLoanService(db, testLoanPeriodDays, testFineRate)
	sweep := services.NewOverdueService(db, testFineRate)

	bookA := createTestBook(t, db, "Dune", "978-0441172719", 1)
	bookB := createTestBook(t, db, "Hyperion", "978-0553283686", 1)
	bookC := createTestBook(t, db, "Neuromancer", "978-0441569595", 1)
	member := createTestMember(t, db, "Alice Johnson", "alice@example.com", true)

	// Overdue as of 2024-01-20
	_, err := loans.BorrowAsOf(testCtx(), member.ID, bookA.ID, date(2024, 1, 1))
	require.NoError(t, err)

	// Open but not yet due
	_, err = loans.BorrowAsOf(testCtx(), member.ID, bookB.ID, date(2024, 1, 18))
	require.NoError(t, err)

	// Closed late; sweeps cover open loans only
	_, err = loans.BorrowAsOf(testCtx(), member.ID, bookC.ID, date(2024, 1, 1))
	require.NoError(t, err)
	_, err = loans.ReturnAsOf(testCtx(), member.ID, bookC.ID, date(2024, 1, 17))
	require.NoError(t, err)

	sweep.Sweep(testCtx(), date(2024, 1, 20))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OverdueLoans))

	// A sweep never closes loans or stamps fines
	active, err := loans.ListActiveLoans(testCtx(), member.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	for _, loan := range active {
		assert.Nil(t, loan.FineAmount)
	}
}
