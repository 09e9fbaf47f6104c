package models

import (
	"time"

	"shelfmark/internal/core/domain"

	"gorm.io/gorm"
)

// Book represents books table
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null;index" json:"title"`
	Author          string    `gorm:"size:255;not null;index" json:"author"`
	ISBN            string    `gorm:"column:isbn;uniqueIndex;size:20;not null" json:"isbn"`
	TotalCopies     int       `gorm:"not null;default:1" json:"total_copies"`
	AvailableCopies int       `gorm:"not null" json:"available_copies"`
	Genre           string    `gorm:"size:100" json:"genre,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// Member represents members table
type Member struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	JoinedDate time.Time `gorm:"type:date;not null" json:"joined_date"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// Loan represents loans table. ReturnedDate and FineAmount are NULL while the
// loan is open; both are written exactly once when it closes.
type Loan struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Reference    string     `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	BookID       uint       `gorm:"not null;index" json:"book_id"`
	MemberID     uint       `gorm:"not null;index" json:"member_id"`
	BorrowedDate time.Time  `gorm:"type:date;not null" json:"borrowed_date"`
	DueDate      time.Time  `gorm:"type:date;not null" json:"due_date"`
	ReturnedDate *time.Time `gorm:"type:date;index" json:"returned_date"`
	FineAmount   *float64   `gorm:"type:decimal(10,2)" json:"fine_amount"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Book   *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsActive reports whether the loan is still open.
func (l *Loan) IsActive() bool {
	return l.ReturnedDate == nil
}

// IsOverdue reports whether the loan is open with a due date strictly before
// asOf. Closed loans are never overdue.
func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.IsActive() && l.DueDate.Before(domain.DateOnly(asOf))
}

// BookResponse DTO
type BookResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Genre           string `json:"genre,omitempty"`
}

func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Genre:           b.Genre,
	}
}

// MemberResponse DTO
type MemberResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	JoinedDate string `json:"joined_date"`
	IsActive   bool   `json:"is_active"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		JoinedDate: m.JoinedDate.Format("2006-01-02"),
		IsActive:   m.IsActive,
	}
}

// LoanResponse DTO
type LoanResponse struct {
	ID           uint     `json:"id"`
	Reference    string   `json:"reference"`
	BookID       uint     `json:"book_id"`
	MemberID     uint     `json:"member_id"`
	BorrowedDate string   `json:"borrowed_date"`
	DueDate      string   `json:"due_date"`
	ReturnedDate *string  `json:"returned_date"`
	FineAmount   *float64 `json:"fine_amount"`
	BookTitle    string   `json:"book_title,omitempty"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:           l.ID,
		Reference:    l.Reference,
		BookID:       l.BookID,
		MemberID:     l.MemberID,
		BorrowedDate: l.BorrowedDate.Format("2006-01-02"),
		DueDate:      l.DueDate.Format("2006-01-02"),
	}

	if l.ReturnedDate != nil {
		d := l.ReturnedDate.Format("2006-01-02")
		resp.ReturnedDate = &d
	}
	if l.FineAmount != nil {
		f := domain.RoundMoney(*l.FineAmount)
		resp.FineAmount = &f
	}
	if l.Book != nil {
		resp.BookTitle = l.Book.Title
	}

	return resp
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Book{},
		&Member{},
		&Loan{},
	)
}
