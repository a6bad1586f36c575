package credit

import (
	"github.com/dimasprakoso/loansystem/pkg/common"
	"github.com/shopspring/decimal"
)

var (
	one           = decimal.NewFromInt(1)
	monthsPerYear = decimal.NewFromInt(1200) // annual percent to monthly fraction
)

// ComputeEMI returns the equated monthly installment for an amortizing loan.
//
// emi = P * r * (1+r)^n / ((1+r)^n - 1), with r the monthly rate.
// A zero interest rate degenerates the formula, so it is special-cased to a
// straight principal split.
func ComputeEMI(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if tenureMonths < 1 {
		return decimal.Zero, common.ErrInvalidTenure
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, common.ErrNegativeRate
	}

	tenure := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePercent.IsZero() {
		return principal.Div(tenure), nil
	}

	monthlyRate := annualRatePercent.Div(monthsPerYear)
	compounded := one.Add(monthlyRate).Pow(tenure)

	return principal.Mul(monthlyRate).Mul(compounded).Div(compounded.Sub(one)), nil
}
