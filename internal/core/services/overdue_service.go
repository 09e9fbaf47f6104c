package services

import (
	"context"
	"log"
	"time"

	"shelfmark/internal/adapters/persistence/repositories"
	"shelfmark/internal/core/domain"
	"shelfmark/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// OverdueService runs the daily overdue sweep: it logs every open loan past
// its due date with the fine accrued so far and refreshes the overdue gauge.
// It never mutates loans; fines are only recorded at return time.
type OverdueService struct {
	db             *gorm.DB
	fineRatePerDay float64
	cron           *cron.Cron
}

// NewOverdueService creates a new overdue service
func NewOverdueService(db *gorm.DB, fineRatePerDay float64) *OverdueService {
	return &OverdueService{
		db:             db,
		fineRatePerDay: fineRatePerDay,
		cron:           cron.New(),
	}
}

// Start schedules the sweep daily at 08:30 and runs one immediately
func (s *OverdueService) Start() {
	s.cron.AddFunc("30 8 * * *", func() {
		s.Sweep(context.Background(), time.Now())
	})
	s.cron.Start()
	log.Println("OverdueService started (daily sweep at 08:30)")

	go s.Sweep(context.Background(), time.Now())
}

// Stop stops the cron scheduler
func (s *OverdueService) Stop() {
	s.cron.Stop()
	log.Println("OverdueService stopped")
}

// Sweep reports all loans overdue as of the given date
func (s *OverdueService) Sweep(ctx context.Context, asOf time.Time) {
	loans, err := repositories.NewLoanRepository(s.db).ListOverdue(ctx, asOf)
	if err != nil {
		log.Printf("Overdue sweep query error: %v", err)
		return
	}

	var accrued float64
	for _, loan := range loans {
		days := domain.DaysBetween(loan.DueDate, asOf)
		fine := float64(days) * s.fineRatePerDay
		accrued += fine

		title := ""
		if loan.Book != nil {
			title = loan.Book.Title
		}
		log.Printf("Overdue: loan %s member=%d book=%q due=%s (%d days, $%.2f accrued)",
			loan.Reference, loan.MemberID, title,
			loan.DueDate.Format("2006-01-02"), days, fine)
	}

	metrics.OverdueLoans.Set(float64(len(loans)))
	if len(loans) > 0 {
		log.Printf("Overdue sweep: %d loans overdue, $%.2f accrued in total",
			len(loans), domain.RoundMoney(accrued))
	}
}
