package routes

import (
	"time"

	"shelfmark/internal/adapters/http/handlers"
	"shelfmark/internal/adapters/http/middleware"
	"shelfmark/internal/config"
	"shelfmark/internal/core/services"
	"shelfmark/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize services
	bookService := services.NewBookService(db)
	memberService := services.NewMemberService(db, cfg.Loan.FineRatePerDay)
	loanService := services.NewLoanService(db, cfg.Loan.PeriodDays, cfg.Loan.FineRatePerDay)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	bookHandler := handlers.NewBookHandler(bookService)
	memberHandler := handlers.NewMemberHandler(memberService)
	loanHandler := handlers.NewLoanHandler(loanService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/healthz", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", metrics.Handler())

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, bookHandler, memberHandler, loanHandler)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	bookHandler *handlers.BookHandler,
	memberHandler *handlers.MemberHandler,
	loanHandler *handlers.LoanHandler,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Catalog routes
	bookRoutes := router.Group("/books")
	bookRoutes.Use(middleware.CacheControl(30 * time.Second))
	setupBookRoutes(bookRoutes, bookHandler)

	// Member routes
	memberRoutes := router.Group("/members")
	setupMemberRoutes(memberRoutes, memberHandler)

	// Circulation routes
	loanRoutes := router.Group("/loans")
	setupLoanRoutes(loanRoutes, loanHandler)
}

// setupBookRoutes configures book catalog routes
func setupBookRoutes(router fiber.Router, handler *handlers.BookHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupMemberRoutes configures member routes
func setupMemberRoutes(router fiber.Router, handler *handlers.MemberHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupLoanRoutes configures circulation routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	circulationLimiter := middleware.CirculationRateLimiter()

	router.Post("/borrow", circulationLimiter, handler.Borrow)
	router.Post("/return", circulationLimiter, handler.Return)
	router.Get("/member/:member_id", handler.GetActiveLoans)
	router.Get("/member/:member_id/fines", handler.GetFines)
}
