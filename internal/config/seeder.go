package config

import (
	"log"
	"time"

	"shelfmark/internal/adapters/persistence/models"
	"shelfmark/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run seeds a small sample catalog with members and a couple of open loans.
// Skipped when the catalog already has data.
func (s *Seeder) Run() error {
	var count int64
	if err := s.db.Model(&models.Book{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Database already seeded, skipping")
		return nil
	}

	log.Println("Running database seeders...")

	books := []*models.Book{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "978-0-7432-7356-5", TotalCopies: 3, AvailableCopies: 3, Genre: "Fiction"},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "978-0-06-112008-4", TotalCopies: 2, AvailableCopies: 2, Genre: "Fiction"},
		{Title: "1984", Author: "George Orwell", ISBN: "978-0-452-28423-4", TotalCopies: 4, AvailableCopies: 3, Genre: "Dystopian"},
		{Title: "Pride and Prejudice", Author: "Jane Austen", ISBN: "978-0-14-143951-8", TotalCopies: 2, AvailableCopies: 2, Genre: "Romance"},
		{Title: "The Catcher in the Rye", Author: "J.D. Salinger", ISBN: "978-0-316-76948-0", TotalCopies: 3, AvailableCopies: 2, Genre: "Fiction"},
	}
	if err := s.db.Create(&books).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d books", len(books))

	today := domain.DateOnly(time.Now())
	members := []*models.Member{
		{Name: "Alice Johnson", Email: "alice.johnson@example.com", JoinedDate: today.AddDate(0, 0, -180), IsActive: true},
		{Name: "Bob Smith", Email: "bob.smith@example.com", JoinedDate: today.AddDate(0, 0, -90), IsActive: true},
		{Name: "Carol Williams", Email: "carol.williams@example.com", JoinedDate: today.AddDate(0, 0, -60), IsActive: true},
		{Name: "David Brown", Email: "david.brown@example.com", JoinedDate: today.AddDate(0, 0, -30), IsActive: true},
	}
	if err := s.db.Create(&members).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d members", len(members))

	// Open loans matching the pre-decremented availability above
	loans := []*models.Loan{
		{
			Reference:    uuid.NewString(),
			BookID:       books[2].ID, // 1984
			MemberID:     members[0].ID,
			BorrowedDate: today.AddDate(0, 0, -5),
			DueDate:      today.AddDate(0, 0, 9),
		},
		{
			Reference:    uuid.NewString(),
			BookID:       books[4].ID, // The Catcher in the Rye
			MemberID:     members[1].ID,
			BorrowedDate: today.AddDate(0, 0, -3),
			DueDate:      today.AddDate(0, 0, 11),
		},
	}
	if err := s.db.Create(&loans).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d loans", len(loans))

	log.Println("Database seeding completed")
	return nil
}
