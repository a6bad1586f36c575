package credit

import (
	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	rejectScoreCeiling = 10
	highRateTierFloor  = 30
	lowRateTierFloor   = 50
)

var (
	two          = decimal.NewFromInt(2)
	highRateTier = decimal.NewFromInt(16)
	lowRateTier  = decimal.NewFromInt(12)
)

// Engine decides loan approval and the corrected interest rate for a
// candidate loan against the customer's existing exposure.
type Engine struct {
	scorer *Scorer
}

func NewEngine(scorer *Scorer) *Engine {
	return &Engine{scorer: scorer}
}

// Evaluate applies the affordability gate first, then the score tiers.
// currentEMITotal is the customer's aggregate monthly repayment across all
// existing loans; it is supplied by the caller so the gate works off the
// same source of truth as the persistence layer.
//
// The reported installment is always computed from the requested rate, even
// when a tier raises the rate.
func (e *Engine) Evaluate(customer *domain.Customer, application domain.LoanApplication, existingLoans []domain.Loan, currentEMITotal decimal.Decimal) (*domain.EligibilityResult, error) {
	emi, err := ComputeEMI(application.Amount, application.InterestRate, application.TenureMonths)
	if err != nil {
		return nil, err
	}

	result := &domain.EligibilityResult{
		CustomerID:            customer.ID,
		InterestRate:          application.InterestRate,
		CorrectedInterestRate: application.InterestRate,
		TenureMonths:          application.TenureMonths,
		MonthlyInstallment:    emi,
	}

	// Hard cutoff: total installments above half the monthly salary reject
	// the application before any score is computed.
	halfSalary := customer.MonthlySalary.Div(two)
	if currentEMITotal.Add(emi).GreaterThan(halfSalary) {
		return result, nil
	}

	score := e.scorer.Score(existingLoans)

	switch {
	case score < rejectScoreCeiling:
		// rate unchanged, not approved
	case score < highRateTierFloor:
		result.Approved = true
		if application.InterestRate.LessThan(highRateTier) {
			result.CorrectedInterestRate = highRateTier
		}
	case score < lowRateTierFloor:
		result.Approved = true
		if application.InterestRate.LessThan(lowRateTier) {
			result.CorrectedInterestRate = lowRateTier
		}
	default:
		result.Approved = true
	}

	return result, nil
}
