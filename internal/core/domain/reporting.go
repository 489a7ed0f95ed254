package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanSummary aggregates the loan tiles of the circulation view.
type LoanSummary struct {
	AsOf           time.Time       `json:"asOf"`
	TotalLoans     int             `json:"totalLoans"`
	ActiveLoans    int             `json:"activeLoans"` // active + renewed
	RenewedLoans   int             `json:"renewedLoans"`
	OverdueLoans   int             `json:"overdueLoans"`
	ReturnedLoans  int             `json:"returnedLoans"`
	FinesAssessed  decimal.Decimal `json:"finesAssessed"`  // frozen on returned loans
	ProjectedFines decimal.Decimal `json:"projectedFines"` // what overdue loans would owe if returned today
}

// Add folds one derived loan view into the summary.
func (s *LoanSummary) Add(v LoanView) {
	s.TotalLoans++
	switch v.Status {
	case LoanActive:
		s.ActiveLoans++
	case LoanRenewed:
		s.ActiveLoans++
		s.RenewedLoans++
	case LoanOverdue:
		s.OverdueLoans++
		s.ProjectedFines = s.ProjectedFines.Add(v.ProjectedFine)
	case LoanReturned:
		s.ReturnedLoans++
		s.FinesAssessed = s.FinesAssessed.Add(v.FineAmount)
	}
}

// OverdueSnapshot is the read-side refresh of unreturned, past-due loans.
type OverdueSnapshot struct {
	AsOf           time.Time       `json:"asOf"`
	Loans          []LoanView      `json:"loans"`
	ProjectedFines decimal.Decimal `json:"projectedFines"`
}

// CatalogStats summarises book copies.
type CatalogStats struct {
	TotalTitles     int `json:"totalTitles"`
	TotalCopies     int `json:"totalCopies"`
	AvailableCopies int `json:"availableCopies"`
}

// BorrowerStats summarises the borrower directory.
type BorrowerStats struct {
	TotalBorrowers   int                    `json:"totalBorrowers"`
	ByMembership     map[MembershipType]int `json:"byMembership"`
	Suspended        int                    `json:"suspended"`
	OutstandingFines decimal.Decimal        `json:"outstandingFines"`
}

// DashboardStats is the landing-page overview.
type DashboardStats struct {
	Catalog   CatalogStats  `json:"catalog"`
	Borrowers BorrowerStats `json:"borrowers"`
	Loans     LoanSummary   `json:"loans"`
}

// UncategorizedBooks labels loans of books catalogued without a category.
const UncategorizedBooks = "Uncategorized"

// MonthlyCirculation is the loan activity of one calendar month.
// A loan counts as overdue in the month of its first day past due.
type MonthlyCirculation struct {
	Month         string          `json:"month"` // YYYY-MM
	Issued        int             `json:"issued"`
	Returned      int             `json:"returned"`
	Overdue       int             `json:"overdue"`
	FinesAssessed decimal.Decimal `json:"finesAssessed"` // frozen by returns in the month
}

// CategoryCirculation counts loans issued for one book category.
type CategoryCirculation struct {
	Category string `json:"category"`
	Loans    int    `json:"loans"`
}

// CirculationReport is the month-by-month view behind the reports page.
// Months covers every month of [From, To], including quiet ones.
type CirculationReport struct {
	From       time.Time             `json:"from"`
	To         time.Time             `json:"to"`
	AsOf       time.Time             `json:"asOf"`
	Months     []MonthlyCirculation  `json:"months"`
	ByCategory []CategoryCirculation `json:"byCategory"` // most borrowed first
}

// NewCirculationReport returns a report with one empty row per month in [from, to].
func NewCirculationReport(from, to, asOf time.Time) *CirculationReport {
	r := &CirculationReport{From: DateOf(from), To: DateOf(to), AsOf: DateOf(asOf), ByCategory: []CategoryCirculation{}}
	for m := MonthOf(r.From); !m.After(r.To); m = m.AddDate(0, 1, 0) {
		r.Months = append(r.Months, MonthlyCirculation{Month: m.Format(MonthLayout), FinesAssessed: decimal.Zero})
	}
	return r
}

// Month returns the row for the month containing d, or nil when d is outside the report.
func (r *CirculationReport) Month(d time.Time) *MonthlyCirculation {
	d = DateOf(d)
	if d.Before(r.From) || d.After(r.To) {
		return nil
	}
	first := MonthOf(r.From)
	i := (d.Year()-first.Year())*12 + int(d.Month()-first.Month())
	return &r.Months[i]
}

// AddLoan folds one loan into the report. Events after AsOf are ignored.
func (r *CirculationReport) AddLoan(loan Loan, category string) {
	if !DateOf(loan.IssueDate).After(r.AsOf) {
		if m := r.Month(loan.IssueDate); m != nil {
			m.Issued++
			if category == "" {
				category = UncategorizedBooks
			}
			r.addCategory(category)
		}
	}
	if loan.IsReturned() && !DateOf(*loan.ReturnDate).After(r.AsOf) {
		if m := r.Month(*loan.ReturnDate); m != nil {
			m.Returned++
			m.FinesAssessed = m.FinesAssessed.Add(loan.FineAmount)
		}
	}
	firstOverdue := AddDays(loan.DueDate, 1)
	wentOverdue := !loan.IsReturned() || DateOf(*loan.ReturnDate).After(DateOf(loan.DueDate))
	if wentOverdue && !firstOverdue.After(r.AsOf) {
		if m := r.Month(firstOverdue); m != nil {
			m.Overdue++
		}
	}
}

func (r *CirculationReport) addCategory(category string) {
	for i := range r.ByCategory {
		if r.ByCategory[i].Category == category {
			r.ByCategory[i].Loans++
			return
		}
	}
	r.ByCategory = append(r.ByCategory, CategoryCirculation{Category: category, Loans: 1})
}
