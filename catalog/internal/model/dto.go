package model

type CreateBookRequest struct {
	Title         string `json:"title" form:"title" validate:"required"`
	AuthorID      string `json:"authorId" form:"authorId" validate:"required,uuid"`
	CategoryID    string `json:"categoryId" form:"categoryId" validate:"required,uuid"`
	ISBN          string `json:"isbn" form:"isbn" validate:"required"`
	Description   string `json:"description" form:"description"`
	PublishedYear int    `json:"publishedYear" form:"publishedYear" validate:"required,gte=0"`
	Quantity      int    `json:"quantity" form:"quantity" validate:"gte=0"`
	Rating        *int   `json:"rating" form:"rating" validate:"omitempty,gte=0,lte=5"`
}

type UpdateBookRequest struct {
	Title         *string `json:"title" form:"title"`
	AuthorID      *string `json:"authorId" form:"authorId" validate:"omitempty,uuid"`
	CategoryID    *string `json:"categoryId" form:"categoryId" validate:"omitempty,uuid"`
	Description   *string `json:"description" form:"description"`
	PublishedYear *int    `json:"publishedYear" form:"publishedYear" validate:"omitempty,gte=0"`
	Quantity      *int    `json:"quantity" form:"quantity" validate:"omitempty,gte=0"`
	Rating        *int    `json:"rating" form:"rating" validate:"omitempty,gte=0,lte=5"`
}

// Attachment is an uploaded file carried from the multipart boundary to the
// blob store.
type Attachment struct {
	Data        []byte
	ContentType string
	Name        string
}

type BorrowRequest struct {
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	ReturnDate string `json:"returnDate" validate:"required,datetime=2006-01-02"`
}

type CreateAuthorRequest struct {
	Name        string     `json:"name" form:"name" validate:"required"`
	Biography   string     `json:"biography" form:"biography"`
	BirthDate   string     `json:"birthDate" form:"birthDate"`
	Nationality string     `json:"nationality" form:"nationality"`
	Email       string     `json:"email" form:"email" validate:"omitempty,email"`
	Genres      StringList `json:"genres" form:"genres"`
	SocialMedia JSONMap    `json:"socialMedia"`
}

type UpdateAuthorRequest struct {
	Name        *string    `json:"name" form:"name"`
	Biography   *string    `json:"biography" form:"biography"`
	BirthDate   *string    `json:"birthDate" form:"birthDate"`
	Nationality *string    `json:"nationality" form:"nationality"`
	Email       *string    `json:"email" form:"email" validate:"omitempty,email"`
	Genres      StringList `json:"genres" form:"genres"`
	SocialMedia JSONMap    `json:"socialMedia"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type BookList struct {
	Items      []Book `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

type AuthorList struct {
	Items      []Author `json:"items"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

type CategoryList struct {
	Items      []Category `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// SearchHit pairs a book with the author name it was matched against. The
// ranker counts query-token hits over title and author name.
type SearchHit struct {
	Book       `json:",inline"`
	AuthorName string `json:"authorName" db:"author_name"`
}
