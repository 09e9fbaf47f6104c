package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shelfmark/internal/adapters/http/handlers"
	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testLoanPeriodDays = 14
	testFineRate       = 0.50
)

var testDBSeq atomic.Int64

// testApp wires handlers over an isolated in-memory database. The sequence
// number keeps repeated in-process runs from reusing a database whose pooled
// connections are still open.
func testApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	bookHandler := handlers.NewBookHandler(services.NewBookService(db))
	memberHandler := handlers.NewMemberHandler(services.NewMemberService(db, testFineRate))
	loanHandler := handlers.NewLoanHandler(services.NewLoanService(db, testLoanPeriodDays, testFineRate))

	app := fiber.New()
	api := app.Group("/api/v1")

	books := api.Group("/books")
	books.Get("/", bookHandler.List)
	books.Post("/", bookHandler.Create)
	books.Get("/:id", bookHandler.GetByID)
	books.Put("/:id", bookHandler.Update)
	books.Delete("/:id", bookHandler.Delete)

	members := api.Group("/members")
	members.Get("/", memberHandler.List)
	members.Post("/", memberHandler.Create)
	members.Get("/:id", memberHandler.GetByID)
	members.Put("/:id", memberHandler.Update)
	members.Delete("/:id", memberHandler.Delete)

	loans := api.Group("/loans")
	loans.Post("/borrow", loanHandler.Borrow)
	loans.Post("/return", loanHandler.Return)
	loans.Get("/member/:member_id", loanHandler.GetActiveLoans)
	loans.Get("/member/:member_id/fines", loanHandler.GetFines)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func seedBook(t *testing.T, db *gorm.DB, title, isbn string, copies int) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:           title,
		Author:          "Test Author",
		ISBN:            isbn,
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func seedMember(t *testing.T, db *gorm.DB, name, email string, active bool) *models.Member {
	t.Helper()

	member := &models.Member{
		Name:       name,
		Email:      email,
		JoinedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:   active,
	}
	require.NoError(t, db.Create(member).Error)
	// GORM omits zero-value fields that carry a default tag from the INSERT,
	// so IsActive: false would be overridden by the column's default:true.
	require.NoError(t, db.Model(member).Update("is_active", active).Error)
	return member
}
