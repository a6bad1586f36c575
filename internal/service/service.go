package service

import (
	"context"

	"github.com/dimasprakoso/loansystem/internal/domain"
)

type CustomerServices interface {
	Register(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	ListCustomers(ctx context.Context, params domain.Params) (*domain.Paginated, error)
}

type LoanServices interface {
	CheckEligibility(ctx context.Context, application domain.LoanApplication) (*domain.EligibilityResult, error)
	CreateLoan(ctx context.Context, application domain.LoanApplication) (*domain.IssueResult, error)
	ViewLoan(ctx context.Context, loanID uint64) (*domain.LoanDetail, error)
	ViewLoansByCustomer(ctx context.Context, customerID uint64) ([]domain.LoanSummary, error)
}
