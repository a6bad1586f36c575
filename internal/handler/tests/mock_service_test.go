package handler_test

import (
	"context"

	"github.com/dimasprakoso/loansystem/internal/domain"
)

type mockCustomerService struct {
	MockRegisterResult *domain.Customer
	MockListResult     *domain.Paginated
	MockError          error
}

func (m *mockCustomerService) Register(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockRegisterResult, nil
}

func (m *mockCustomerService) ListCustomers(ctx context.Context, params domain.Params) (*domain.Paginated, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockListResult, nil
}

type mockLoanService struct {
	MockEligibilityResult *domain.EligibilityResult
	MockIssueResult       *domain.IssueResult
	MockLoanDetail        *domain.LoanDetail
	MockSummaries         []domain.LoanSummary
	MockError             error
}

func (m *mockLoanService) CheckEligibility(ctx context.Context, application domain.LoanApplication) (*domain.EligibilityResult, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockEligibilityResult, nil
}

func (m *mockLoanService) CreateLoan(ctx context.Context, application domain.LoanApplication) (*domain.IssueResult, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockIssueResult, nil
}

func (m *mockLoanService) ViewLoan(ctx context.Context, loanID uint64) (*domain.LoanDetail, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockLoanDetail, nil
}

func (m *mockLoanService) ViewLoansByCustomer(ctx context.Context, customerID uint64) ([]domain.LoanSummary, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockSummaries, nil
}
