package service_test

import (
	"context"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/shopspring/decimal"
)

type mockCustomerRepository struct {
	// Fields to control mock behavior
	MockFindByIDData       *domain.Customer
	MockNextID             uint64
	MockFindPaginatedData  []domain.Customer
	MockFindPaginatedTotal int64
	MockError              error

	// Fields to capture calls
	CreateCalledWith   *domain.Customer
	FindByIDCalledWith uint64
}

func (m *mockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	m.CreateCalledWith = customer
	if m.MockError != nil {
		return nil, m.MockError
	}
	return customer, nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	m.FindByIDCalledWith = id
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockFindByIDData != nil && m.MockFindByIDData.ID == id {
		return m.MockFindByIDData, nil
	}
	return nil, nil
}

func (m *mockCustomerRepository) NextID(ctx context.Context) (uint64, error) {
	if m.MockError != nil {
		return 0, m.MockError
	}
	return m.MockNextID, nil
}

func (m *mockCustomerRepository) FindPaginated(ctx context.Context, params domain.Params) ([]domain.Customer, int64, error) {
	return m.MockFindPaginatedData, m.MockFindPaginatedTotal, m.MockError
}

type mockLoanRepository struct {
	MockFindByIDData            *domain.Loan
	MockFindAllByCustomerIDData []domain.Loan
	MockNextID                  uint64
	MockError                   error

	CreateCalledWith *domain.Loan
	CreatedLoans     []domain.Loan
	UpsertCalledWith *domain.Loan
	SumCalls         int
	SumCalledWith    uint64
}

// allLoans is the mock's table: the preloaded rows plus everything created
// through it, so NextID and the repayment sum stay consistent across calls.
func (m *mockLoanRepository) allLoans() []domain.Loan {
	loans := append([]domain.Loan{}, m.MockFindAllByCustomerIDData...)
	return append(loans, m.CreatedLoans...)
}

func (m *mockLoanRepository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	m.CreateCalledWith = loan
	if m.MockError != nil {
		return nil, m.MockError
	}
	m.CreatedLoans = append(m.CreatedLoans, *loan)
	return loan, nil
}

func (m *mockLoanRepository) Upsert(ctx context.Context, loan *domain.Loan) error {
	m.UpsertCalledWith = loan
	return m.MockError
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockFindByIDData != nil && m.MockFindByIDData.ID == id {
		return m.MockFindByIDData, nil
	}
	return nil, nil
}

func (m *mockLoanRepository) FindAllByCustomerID(ctx context.Context, customerID uint64) ([]domain.Loan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.allLoans(), nil
}

func (m *mockLoanRepository) NextID(ctx context.Context) (uint64, error) {
	if m.MockError != nil {
		return 0, m.MockError
	}
	next := m.MockNextID
	if next == 0 {
		next = 1
	}
	for _, loan := range m.allLoans() {
		if loan.ID >= next {
			next = loan.ID + 1
		}
	}
	return next, nil
}

func (m *mockLoanRepository) SumMonthlyRepaymentByCustomerID(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	m.SumCalls++
	m.SumCalledWith = customerID
	if m.MockError != nil {
		return decimal.Zero, m.MockError
	}
	total := decimal.Zero
	for _, loan := range m.allLoans() {
		total = total.Add(loan.MonthlyRepayment)
	}
	return total, nil
}

type mockIssuanceLock struct {
	MockError error

	AcquireCalledWith uint64
	AcquireCalls      int
	Released          bool
}

func (m *mockIssuanceLock) Acquire(ctx context.Context, customerID uint64) (func(), error) {
	m.AcquireCalledWith = customerID
	m.AcquireCalls++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return func() { m.Released = true }, nil
}
