package pgsql

import (
	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/SscSPs/library_management_app/internal/models"
)

func toModelAudit(a domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func toDomainAudit(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

func toModelBook(d domain.Book) models.Book {
	return models.Book{
		BookID:          d.BookID,
		Title:           d.Title,
		Author:          d.Author,
		ISBN:            d.ISBN,
		Category:        d.Category,
		PublishedYear:   d.PublishedYear,
		TotalCopies:     d.TotalCopies,
		AvailableCopies: d.AvailableCopies,
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

func toDomainBook(m models.Book) domain.Book {
	return domain.Book{
		BookID:          m.BookID,
		Title:           m.Title,
		Author:          m.Author,
		ISBN:            m.ISBN,
		Category:        m.Category,
		PublishedYear:   m.PublishedYear,
		TotalCopies:     m.TotalCopies,
		AvailableCopies: m.AvailableCopies,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

func toModelBorrower(d domain.Borrower) models.Borrower {
	return models.Borrower{
		BorrowerID:     d.BorrowerID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		MembershipType: string(d.MembershipType),
		JoinDate:       domain.DateOf(d.JoinDate),
		ActiveLoans:    d.ActiveLoans,
		TotalBorrowed:  d.TotalBorrowed,
		Fines:          d.Fines,
		Status:         string(d.Status),
		AuditFields:    toModelAudit(d.AuditFields),
	}
}

func toDomainBorrower(m models.Borrower) domain.Borrower {
	return domain.Borrower{
		BorrowerID:     m.BorrowerID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		MembershipType: domain.MembershipType(m.MembershipType),
		JoinDate:       domain.DateOf(m.JoinDate),
		ActiveLoans:    m.ActiveLoans,
		TotalBorrowed:  m.TotalBorrowed,
		Fines:          m.Fines,
		Status:         domain.BorrowerStatus(m.Status),
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}

func toModelLoan(d domain.Loan) models.Loan {
	m := models.Loan{
		LoanID:       d.LoanID,
		BookID:       d.BookID,
		BorrowerID:   d.BorrowerID,
		IssueDate:    domain.DateOf(d.IssueDate),
		DueDate:      domain.DateOf(d.DueDate),
		RenewalCount: d.RenewalCount,
		FineAmount:   d.FineAmount,
		AuditFields:  toModelAudit(d.AuditFields),
	}
	if d.ReturnDate != nil {
		rd := domain.DateOf(*d.ReturnDate)
		m.ReturnDate = &rd
	}
	return m
}

func toDomainLoan(m models.Loan) domain.Loan {
	d := domain.Loan{
		LoanID:       m.LoanID,
		BookID:       m.BookID,
		BorrowerID:   m.BorrowerID,
		IssueDate:    domain.DateOf(m.IssueDate),
		DueDate:      domain.DateOf(m.DueDate),
		RenewalCount: m.RenewalCount,
		FineAmount:   m.FineAmount,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
	if m.ReturnDate != nil {
		rd := domain.DateOf(*m.ReturnDate)
		d.ReturnDate = &rd
	}
	return d
}

func toDomainLoanRecord(m models.LoanRecord) domain.LoanRecord {
	return domain.LoanRecord{
		Loan:         toDomainLoan(m.Loan),
		BookTitle:    m.BookTitle,
		BookAuthor:   m.BookAuthor,
		BorrowerName: m.BorrowerName,
	}
}
