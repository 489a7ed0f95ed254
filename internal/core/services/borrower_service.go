package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type borrowerService struct {
	BaseService
	borrowerRepo portsrepo.BorrowerRepositoryFacade
	txManager    portsrepo.TransactionManager
}

// NewBorrowerService creates a new borrower directory service.
func NewBorrowerService(borrowerRepo portsrepo.BorrowerRepositoryFacade, txManager portsrepo.TransactionManager) portssvc.BorrowerSvcFacade {
	return &borrowerService{
		borrowerRepo: borrowerRepo,
		txManager:    txManager,
	}
}

var _ portssvc.BorrowerSvcFacade = (*borrowerService)(nil)

func (s *borrowerService) CreateBorrower(ctx context.Context, req dto.CreateBorrowerRequest, userID string) (*domain.Borrower, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}
	if !domain.IsValidMembershipType(req.MembershipType) {
		return nil, fmt.Errorf("%w: unknown membership type %q", apperrors.ErrValidation, req.MembershipType)
	}

	now := s.Now()
	joinDate := domain.DateOf(now)
	if req.JoinDate != "" {
		parsed, err := domain.ParseDate(req.JoinDate)
		if err != nil {
			return nil, fmt.Errorf("%w: join date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		joinDate = parsed
	}

	borrower := domain.Borrower{
		BorrowerID:     uuid.NewString(),
		Name:           name,
		Email:          email,
		Phone:          strings.TrimSpace(req.Phone),
		MembershipType: req.MembershipType,
		JoinDate:       joinDate,
		Fines:          decimal.Zero,
		Status:         domain.BorrowerActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.borrowerRepo.SaveBorrower(ctx, borrower); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save borrower")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Borrower registered",
		slog.String("borrower_id", borrower.BorrowerID),
		slog.String("membership", string(borrower.MembershipType)))
	return &borrower, nil
}

func (s *borrowerService) GetBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	borrower, err := s.borrowerRepo.FindBorrowerByID(ctx, borrowerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find borrower by ID", slog.String("borrower_id", borrowerID))
		}
		return nil, err
	}
	return borrower, nil
}

func (s *borrowerService) ListBorrowers(ctx context.Context, params dto.ListBorrowersParams) ([]domain.Borrower, error) {
	borrowers, err := s.borrowerRepo.ListBorrowers(ctx, portsrepo.BorrowerListFilter{
		Search:         strings.TrimSpace(params.Search),
		MembershipType: params.MembershipType,
		Status:         params.Status,
		Limit:          params.Limit,
		Offset:         params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list borrowers")
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	if borrowers == nil {
		return []domain.Borrower{}, nil
	}
	return borrowers, nil
}

func (s *borrowerService) UpdateBorrower(ctx context.Context, borrowerID string, req dto.UpdateBorrowerRequest, userID string) (*domain.Borrower, error) {
	return s.mutate(ctx, borrowerID, userID, "Borrower updated", func(b *domain.Borrower) error {
		if req.Name != nil {
			if b.Name = strings.TrimSpace(*req.Name); b.Name == "" {
				return fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
			}
		}
		if req.Email != nil {
			if b.Email = strings.ToLower(strings.TrimSpace(*req.Email)); b.Email == "" {
				return fmt.Errorf("%w: email must not be empty", apperrors.ErrValidation)
			}
		}
		if req.Phone != nil {
			b.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.MembershipType != nil {
			if !domain.IsValidMembershipType(*req.MembershipType) {
				return fmt.Errorf("%w: unknown membership type %q", apperrors.ErrValidation, *req.MembershipType)
			}
			b.MembershipType = *req.MembershipType
		}
		if req.Status != nil {
			if !domain.IsValidBorrowerStatus(*req.Status) {
				return fmt.Errorf("%w: unknown borrower status %q", apperrors.ErrValidation, *req.Status)
			}
			b.Status = *req.Status
		}
		return nil
	})
}

func (s *borrowerService) PayFine(ctx context.Context, borrowerID string, amount decimal.Decimal, userID string) (*domain.Borrower, error) {
	return s.mutate(ctx, borrowerID, userID, "Fine payment recorded", func(b *domain.Borrower) error {
		if !amount.IsPositive() {
			return fmt.Errorf("%w: payment must be positive", apperrors.ErrValidation)
		}
		if !amount.Equal(amount.Round(2)) {
			return fmt.Errorf("%w: payment %s has more than 2 decimal places", apperrors.ErrValidation, amount)
		}
		if amount.GreaterThan(b.Fines) {
			return fmt.Errorf("%w: payment %s exceeds outstanding fines %s",
				apperrors.ErrValidation, amount.StringFixed(2), b.Fines.StringFixed(2))
		}
		b.Fines = b.Fines.Sub(amount)
		return nil
	})
}

// mutate applies fn to the locked borrower row. Counters and fines share the
// row with the loan ledger, so every edit goes through a transaction.
func (s *borrowerService) mutate(ctx context.Context, borrowerID, userID, msg string, fn func(*domain.Borrower) error) (*domain.Borrower, error) {
	var updated domain.Borrower
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		borrower, err := tx.FindBorrowerForUpdate(ctx, borrowerID)
		if err != nil {
			return err
		}
		if err := fn(borrower); err != nil {
			return err
		}
		stamp(&borrower.AuditFields, s.Now(), userID)
		if err := tx.UpdateBorrower(ctx, *borrower); err != nil {
			return err
		}
		updated = *borrower
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update borrower", slog.String("borrower_id", borrowerID))
		}
		return nil, err
	}

	s.LogInfo(ctx, msg, slog.String("borrower_id", borrowerID))
	return &updated, nil
}
