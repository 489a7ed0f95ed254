package models

// Book is a row of the books table.
type Book struct {
	BookID          string `db:"book_id"`
	Title           string `db:"title"`
	Author          string `db:"author"`
	ISBN            string `db:"isbn"`
	Category        string `db:"category"`
	PublishedYear   int    `db:"published_year"`
	TotalCopies     int    `db:"total_copies"`
	AvailableCopies int    `db:"available_copies"`
	AuditFields
}
