package services

import (
	"time"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/core/domain"
)

// FinesSummary represents a member's outstanding fines as of a given date
type FinesSummary struct {
	Total               float64 `json:"total_fines"`
	ActiveOverdueCount  int     `json:"active_overdue_loans"`
	UnpaidReturnedTotal float64 `json:"unpaid_returned_fines"`
}

// CalculateFines computes outstanding fines over a set of loans as of a given
// date. Open loans past their due date accrue ratePerDay per whole day
// overdue; closed loans contribute their recorded fine amount. Closed loans
// that settled at zero contribute nothing. The function has no side effects
// and accumulates unrounded values; rounding happens at the reporting
// boundary.
func CalculateFines(loans []*models.Loan, asOf time.Time, ratePerDay float64) FinesSummary {
	var summary FinesSummary

	for _, loan := range loans {
		if loan.IsOverdue(asOf) {
			overdueDays := domain.DaysBetween(loan.DueDate, asOf)
			summary.Total += float64(overdueDays) * ratePerDay
			summary.ActiveOverdueCount++
		} else if !loan.IsActive() && loan.FineAmount != nil && *loan.FineAmount > 0 {
			summary.Total += *loan.FineAmount
			summary.UnpaidReturnedTotal += *loan.FineAmount
		}
	}

	return summary
}

// Rounded returns a copy of the summary with monetary amounts rounded to two
// decimal places for reporting.
func (s FinesSummary) Rounded() FinesSummary {
	return FinesSummary{
		Total:               domain.RoundMoney(s.Total),
		ActiveOverdueCount:  s.ActiveOverdueCount,
		UnpaidReturnedTotal: domain.RoundMoney(s.UnpaidReturnedTotal),
	}
}
