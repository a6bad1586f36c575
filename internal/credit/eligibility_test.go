package credit_test

import (
	"testing"

	"github.com/dimasprakoso/loansystem/internal/credit"
	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/pkg/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *credit.Engine {
	return credit.NewEngine(newTestScorer())
}

func testCustomer(salary int64) *domain.Customer {
	return &domain.Customer{
		ID:            1,
		FirstName:     "Ravi",
		LastName:      "Kumar",
		MonthlySalary: decimal.NewFromInt(salary),
	}
}

func totalRepayment(loans []domain.Loan) decimal.Decimal {
	total := decimal.Zero
	for _, loan := range loans {
		total = total.Add(loan.MonthlyRepayment)
	}
	return total
}

func TestEvaluate(t *testing.T) {
	lastYear := scoreNow.AddDate(-1, 0, 0)
	thisYear := scoreNow.AddDate(0, -1, 0)

	t.Run("new customer with affordable loan is approved at requested rate", func(t *testing.T) {
		application := domain.LoanApplication{
			CustomerID:   1,
			Amount:       decimal.NewFromInt(500000),
			InterestRate: decimal.NewFromInt(10),
			TenureMonths: 24,
		}

		result, err := newTestEngine().Evaluate(testCustomer(100000), application, nil, decimal.Zero)
		require.NoError(t, err)

		assert.True(t, result.Approved)
		assert.True(t, result.CorrectedInterestRate.Equal(application.InterestRate))
		assert.True(t, result.MonthlyInstallment.LessThanOrEqual(decimal.NewFromInt(50000)))
	})

	t.Run("affordability gate is an exact cutoff", func(t *testing.T) {
		customer := testCustomer(100000)
		application := domain.LoanApplication{
			CustomerID:   1,
			Amount:       decimal.NewFromInt(200000),
			InterestRate: decimal.NewFromInt(10),
			TenureMonths: 24,
		}
		emi, err := credit.ComputeEMI(application.Amount, application.InterestRate, application.TenureMonths)
		require.NoError(t, err)

		halfSalary := customer.MonthlySalary.Div(decimal.NewFromInt(2))
		headroom := halfSalary.Sub(emi)

		atLimit := []domain.Loan{{
			MonthlyRepayment: headroom,
			EMIsPaidOnTime:   12,
			StartDate:        lastYear,
		}}
		result, err := newTestEngine().Evaluate(customer, application, atLimit, totalRepayment(atLimit))
		require.NoError(t, err)
		assert.True(t, result.Approved, "summing to exactly half the salary must pass")

		overLimit := []domain.Loan{{
			MonthlyRepayment: headroom.Add(decimal.NewFromFloat(0.01)),
			EMIsPaidOnTime:   12,
			StartDate:        lastYear,
		}}
		result, err = newTestEngine().Evaluate(customer, application, overLimit, totalRepayment(overLimit))
		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.True(t, result.CorrectedInterestRate.Equal(application.InterestRate),
			"affordability rejection leaves the rate untouched")
		assert.True(t, result.MonthlyInstallment.Equal(emi),
			"the computed installment is still reported for transparency")
	})

	t.Run("mid tier raises a low rate to the floor", func(t *testing.T) {
		// four loans started this year, none paid on time: score 35
		existing := make([]domain.Loan, 4)
		for i := range existing {
			existing[i] = domain.Loan{
				MonthlyRepayment: decimal.NewFromInt(100),
				StartDate:        thisYear,
			}
		}

		application := domain.LoanApplication{
			CustomerID:   1,
			Amount:       decimal.NewFromInt(100000),
			InterestRate: decimal.NewFromInt(8),
			TenureMonths: 12,
		}

		result, err := newTestEngine().Evaluate(testCustomer(100000), application, existing, totalRepayment(existing))
		require.NoError(t, err)

		assert.True(t, result.Approved)
		assert.True(t, result.CorrectedInterestRate.Equal(decimal.NewFromInt(12)))

		// The reported installment still reflects the requested 8%, not the
		// corrected 12%.
		requestedEMI, err := credit.ComputeEMI(application.Amount, decimal.NewFromInt(8), 12)
		require.NoError(t, err)
		assert.True(t, result.MonthlyInstallment.Equal(requestedEMI))
	})

	t.Run("correction never lowers a requested rate", func(t *testing.T) {
		existing := make([]domain.Loan, 4)
		for i := range existing {
			existing[i] = domain.Loan{
				MonthlyRepayment: decimal.NewFromInt(100),
				StartDate:        thisYear,
			}
		}

		application := domain.LoanApplication{
			CustomerID:   1,
			Amount:       decimal.NewFromInt(100000),
			InterestRate: decimal.NewFromInt(20),
			TenureMonths: 12,
		}

		result, err := newTestEngine().Evaluate(testCustomer(100000), application, existing, totalRepayment(existing))
		require.NoError(t, err)
		assert.True(t, result.Approved)
		assert.True(t, result.CorrectedInterestRate.Equal(decimal.NewFromInt(20)))
	})

	t.Run("gate works off the supplied repayment total", func(t *testing.T) {
		// The loan rows only feed the scorer; the affordability cutoff uses
		// the aggregate the caller supplies.
		existing := []domain.Loan{{
			MonthlyRepayment: decimal.NewFromInt(30000),
			EMIsPaidOnTime:   12,
			StartDate:        lastYear,
		}}

		application := domain.LoanApplication{
			CustomerID:   1,
			Amount:       decimal.NewFromInt(200000),
			InterestRate: decimal.NewFromInt(10),
			TenureMonths: 24,
		}

		result, err := newTestEngine().Evaluate(testCustomer(100000), application, existing, decimal.NewFromInt(60000))
		require.NoError(t, err)
		assert.False(t, result.Approved, "the supplied total decides the gate, not the row sum")
	})

	t.Run("invalid tenure propagates", func(t *testing.T) {
		application := domain.LoanApplication{
			CustomerID:   1,
			Amount:       decimal.NewFromInt(100000),
			InterestRate: decimal.NewFromInt(10),
			TenureMonths: 0,
		}
		_, err := newTestEngine().Evaluate(testCustomer(100000), application, nil, decimal.Zero)
		assert.ErrorIs(t, err, common.ErrInvalidTenure)
	})
}
