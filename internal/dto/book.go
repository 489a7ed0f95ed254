package dto

import (
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
)

// CreateBookRequest defines the data needed to add a title to the catalog.
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required,max=255"`
	Author        string `json:"author" binding:"required,max=255"`
	ISBN          string `json:"isbn" binding:"required,max=32"`
	Category      string `json:"category" binding:"max=64"`
	PublishedYear int    `json:"publishedYear" binding:"omitempty,min=0,max=9999"`
	TotalCopies   int    `json:"totalCopies" binding:"required,min=1"`
}

// UpdateBookRequest defines the data allowed for updating a book.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=255"`
	Author        *string `json:"author" binding:"omitempty,min=1,max=255"`
	ISBN          *string `json:"isbn" binding:"omitempty,min=1,max=32"`
	Category      *string `json:"category" binding:"omitempty,max=64"`
	PublishedYear *int    `json:"publishedYear" binding:"omitempty,min=0,max=9999"`
	TotalCopies   *int    `json:"totalCopies" binding:"omitempty,min=1"`
}

// ListBooksParams defines query parameters for listing books.
type ListBooksParams struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Limit    int    `form:"limit,default=50" binding:"min=0,max=500"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
}

// BookResponse defines the data returned for a book.
type BookResponse struct {
	BookID          string                  `json:"bookID"`
	Title           string                  `json:"title"`
	Author          string                  `json:"author"`
	ISBN            string                  `json:"isbn"`
	Category        string                  `json:"category"`
	PublishedYear   int                     `json:"publishedYear"`
	TotalCopies     int                     `json:"totalCopies"`
	AvailableCopies int                     `json:"availableCopies"`
	Availability    domain.BookAvailability `json:"availability"`
	CreatedAt       time.Time               `json:"createdAt"`
	LastUpdatedAt   time.Time               `json:"lastUpdatedAt"`
}

// ListBooksResponse wraps the list of books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books"`
}

// ToBookResponse converts a domain.Book to BookResponse DTO
func ToBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Category:        b.Category,
		PublishedYear:   b.PublishedYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Availability:    b.Availability(),
		CreatedAt:       b.CreatedAt,
		LastUpdatedAt:   b.LastUpdatedAt,
	}
}

// ToListBooksResponse converts a slice of domain.Book to ListBooksResponse DTO
func ToListBooksResponse(books []domain.Book) ListBooksResponse {
	res := make([]BookResponse, len(books))
	for i := range books {
		res[i] = ToBookResponse(&books[i])
	}
	return ListBooksResponse{Books: res}
}
