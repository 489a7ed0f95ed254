package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the domain enum tags to gin's validator:
// membership, borrowerstatus, loanstatus and loansort.
func RegisterValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		tags := map[string]validator.Func{
			"membership": func(fl validator.FieldLevel) bool {
				return domain.IsValidMembershipType(domain.MembershipType(fl.Field().String()))
			},
			"borrowerstatus": func(fl validator.FieldLevel) bool {
				return domain.IsValidBorrowerStatus(domain.BorrowerStatus(fl.Field().String()))
			},
			"loanstatus": func(fl validator.FieldLevel) bool {
				return domain.IsValidLoanStatus(domain.LoanStatus(fl.Field().String()))
			},
			"loansort": func(fl validator.FieldLevel) bool {
				return domain.IsValidLoanSortKey(domain.LoanSortKey(fl.Field().String()))
			},
		}
		for tag, fn := range tags {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}
