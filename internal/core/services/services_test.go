package services_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shelfmark/internal/adapters/persistence/models"

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

// newTestDB opens an isolated in-memory database per call. The shared cache
// keeps all pooled connections on the same database; the sequence number keeps
// repeated runs in one process (go test -count=N) from reusing a database
// whose pooled connections are still open.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createTestBook(t *testing.T, db *gorm.DB, title, isbn string, copies int) *models.Book {
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

func createTestMember(t *testing.T, db *gorm.DB, name, email string, active bool) *models.Member {
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

func getBook(t *testing.T, db *gorm.DB, id uint) *models.Book {
	t.Helper()

	var book models.Book
	require.NoError(t, db.First(&book, id).Error)
	return &book
}

func testCtx() context.Context {
	return context.Background()
}
