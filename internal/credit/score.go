package credit

import (
	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultScore is the baseline for customers with no loan history.
	DefaultScore = 50

	baseScore = 50
	maxScore  = 100

	smallPortfolio  = 3
	mediumPortfolio = 5

	currentYearLoanCap = 3
)

var (
	paymentRatioWeight = decimal.NewFromInt(20)
	smallVolumeBonus   = decimal.NewFromInt(10)
	mediumVolumeBonus  = decimal.NewFromInt(5)
	currentYearPenalty = decimal.NewFromInt(20)

	// The payment ratio measures EMIs paid on time against a nominal
	// 12-installment year per loan, regardless of actual tenure.
	nominalInstallments = decimal.NewFromInt(12)
)

// Scorer derives a 0-100 credit score from a customer's loan history.
type Scorer struct {
	clock Clock
}

func NewScorer(clock Clock) *Scorer {
	return &Scorer{clock: clock}
}

// Score returns the credit score for the given loan history. The result is
// clamped to [0, 100] and truncated to a whole number.
func (s *Scorer) Score(loans []domain.Loan) int {
	if len(loans) == 0 {
		return DefaultScore
	}

	totalLoans := len(loans)
	currentYear := s.clock.Now().Year()

	paidOnTime := 0
	currentYearLoans := 0
	for _, loan := range loans {
		paidOnTime += loan.EMIsPaidOnTime
		if loan.StartDate.Year() == currentYear {
			currentYearLoans++
		}
	}

	score := decimal.NewFromInt(baseScore)

	paymentRatio := decimal.NewFromInt(int64(paidOnTime)).
		Div(decimal.NewFromInt(int64(totalLoans)).Mul(nominalInstallments))
	score = score.Add(paymentRatio.Mul(paymentRatioWeight))

	switch {
	case totalLoans <= smallPortfolio:
		score = score.Add(smallVolumeBonus)
	case totalLoans <= mediumPortfolio:
		score = score.Add(mediumVolumeBonus)
	}

	if currentYearLoans > currentYearLoanCap {
		score = score.Sub(currentYearPenalty)
	}

	return clampScore(score)
}

func clampScore(score decimal.Decimal) int {
	n := int(score.IntPart())
	if n < 0 {
		return 0
	}
	if n > maxScore {
		return maxScore
	}
	return n
}
