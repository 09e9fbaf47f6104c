package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Circulation counters, incremented by the loan service on committed
// operations only.
var (
	BorrowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shelfmark",
		Name:      "borrows_total",
		Help:      "Number of loans opened.",
	})

	ReturnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shelfmark",
		Name:      "returns_total",
		Help:      "Number of loans closed.",
	})

	FinesAssessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shelfmark",
		Name:      "fines_assessed_dollars_total",
		Help:      "Total fine amount recorded at loan close.",
	})

	OverdueLoans = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shelfmark",
		Name:      "overdue_loans",
		Help:      "Open loans past their due date, updated by the daily sweep.",
	})
)

// Handler exposes the Prometheus scrape endpoint as a fiber handler
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
