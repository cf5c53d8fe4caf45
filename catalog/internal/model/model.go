package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusBorrowed    Status = "BORROWED"
	StatusUnavailable Status = "UNAVAILABLE"
)

// DeriveStatus projects a book status from its quantity. Plain reads always
// present this projection, overriding whatever status is persisted; only the
// borrow/return write path returns the explicitly written value.
func DeriveStatus(quantity int) Status {
	if quantity > 0 {
		return StatusAvailable
	}
	return StatusUnavailable
}

type Book struct {
	ID            string     `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	AuthorID      string     `json:"authorId" db:"author_id"`
	CategoryID    string     `json:"categoryId" db:"category_id"`
	ISBN          string     `json:"isbn" db:"isbn"`
	Status        Status     `json:"status" db:"status"`
	Description   string     `json:"description,omitempty" db:"description"`
	PublishedYear int        `json:"publishedYear" db:"published_year"`
	Quantity      int        `json:"quantity" db:"quantity"`
	CoverURL      string     `json:"coverUrl,omitempty" db:"cover_url"`
	PdfURL        string     `json:"pdfUrl,omitempty" db:"pdf_url"`
	BorrowerID    *string    `json:"borrowerId,omitempty" db:"borrower_id"`
	StartDate     *time.Time `json:"startDate,omitempty" db:"start_date"`
	ReturnDate    *time.Time `json:"returnDate,omitempty" db:"return_date"`
	Rating        *int       `json:"rating,omitempty" db:"rating"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// Project applies the derived-status projection in place.
func (b *Book) Project() {
	b.Status = DeriveStatus(b.Quantity)
}

type Author struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Biography   string     `json:"biography" db:"biography"`
	BirthDate   string     `json:"birthDate" db:"birth_date"`
	Nationality string     `json:"nationality" db:"nationality"`
	Email       string     `json:"email" db:"email"`
	Genres      StringList `json:"genres" db:"genres"`
	SocialMedia JSONMap    `json:"socialMedia,omitempty" db:"social_media"`
	ProfileURL  string     `json:"profileUrl,omitempty" db:"profile_url"`
	BooksCount  int        `json:"booksCount" db:"books_count"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	BooksCount  int       `json:"booksCount" db:"books_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// RecordID / RecordName / Dependents satisfy the directory record contract
// shared by authors and categories.

func (a Author) RecordID() string   { return a.ID }
func (a Author) RecordName() string { return a.Name }
func (a Author) Dependents() int    { return a.BooksCount }

func (c Category) RecordID() string   { return c.ID }
func (c Category) RecordName() string { return c.Name }
func (c Category) Dependents() int    { return c.BooksCount }

// StringList is a []string stored as a JSON column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *StringList) Scan(src any) error {
	return scanJSON(src, s)
}

// JSONMap is a map[string]string stored as a JSON column.
type JSONMap map[string]string

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *JSONMap) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.Errorf("unsupported scan source %T", src)
	}
}
