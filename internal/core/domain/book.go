package domain

// BookAvailability is the display label derived from a book's free copies.
type BookAvailability string

const (
	BookAvailable BookAvailability = "available"
	BookBorrowed  BookAvailability = "borrowed"
)

// Book represents a catalog title and its copy counters.
// AvailableCopies is owned by the loan ledger; catalog edits never set it directly.
type Book struct {
	BookID          string `json:"bookID"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	PublishedYear   int    `json:"publishedYear"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
	AuditFields
}

// CopiesOnLoan returns the number of copies currently lent out.
func (b Book) CopiesOnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

// Availability derives the availability label from the copy counters.
func (b Book) Availability() BookAvailability {
	if b.AvailableCopies > 0 {
		return BookAvailable
	}
	return BookBorrowed
}
