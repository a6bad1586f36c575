package repository

import (
	"context"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/shopspring/decimal"
)

// CustomerRepository abstracts customer persistence. Lookup misses return
// (nil, nil); callers translate that into their own not-found error.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id uint64) (*domain.Customer, error)
	NextID(ctx context.Context) (uint64, error)
	FindPaginated(ctx context.Context, params domain.Params) ([]domain.Customer, int64, error)
}

type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	Upsert(ctx context.Context, loan *domain.Loan) error
	FindByID(ctx context.Context, id uint64) (*domain.Loan, error)
	FindAllByCustomerID(ctx context.Context, customerID uint64) ([]domain.Loan, error)
	NextID(ctx context.Context) (uint64, error)
	SumMonthlyRepaymentByCustomerID(ctx context.Context, customerID uint64) (decimal.Decimal, error)
}
