package credit_test

import (
	"testing"
	"time"

	"github.com/dimasprakoso/loansystem/internal/credit"
	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/stretchr/testify/assert"
)

var scoreNow = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func newTestScorer() *credit.Scorer {
	return credit.NewScorer(credit.FixedClock{Instant: scoreNow})
}

func loanStarted(start time.Time, paidOnTime int) domain.Loan {
	return domain.Loan{
		EMIsPaidOnTime: paidOnTime,
		StartDate:      start,
		EndDate:        start.AddDate(1, 0, 0),
	}
}

func TestScore(t *testing.T) {
	lastYear := scoreNow.AddDate(-1, 0, 0)
	thisYear := scoreNow.AddDate(0, -1, 0)

	t.Run("no loans returns default", func(t *testing.T) {
		assert.Equal(t, 50, newTestScorer().Score(nil))
		assert.Equal(t, 50, newTestScorer().Score([]domain.Loan{}))
	})

	t.Run("perfect single loan history", func(t *testing.T) {
		// ratio 12/12 adds 20, small portfolio adds 10
		loans := []domain.Loan{loanStarted(lastYear, 12)}
		assert.Equal(t, 80, newTestScorer().Score(loans))
	})

	t.Run("medium portfolio bonus", func(t *testing.T) {
		loans := []domain.Loan{
			loanStarted(lastYear, 12),
			loanStarted(lastYear, 12),
			loanStarted(lastYear, 12),
			loanStarted(lastYear, 12),
		}
		// ratio 48/48 adds 20, four loans add 5
		assert.Equal(t, 75, newTestScorer().Score(loans))
	})

	t.Run("large portfolio gets no volume bonus", func(t *testing.T) {
		loans := make([]domain.Loan, 6)
		for i := range loans {
			loans[i] = loanStarted(lastYear, 12)
		}
		assert.Equal(t, 70, newTestScorer().Score(loans))
	})

	t.Run("current year penalty", func(t *testing.T) {
		loans := []domain.Loan{
			loanStarted(thisYear, 0),
			loanStarted(thisYear, 0),
			loanStarted(thisYear, 0),
			loanStarted(thisYear, 0),
		}
		// base 50, no payments, medium bonus 5, four loans this year -20
		assert.Equal(t, 35, newTestScorer().Score(loans))
	})

	t.Run("exactly three current year loans is not penalized", func(t *testing.T) {
		loans := []domain.Loan{
			loanStarted(thisYear, 0),
			loanStarted(thisYear, 0),
			loanStarted(thisYear, 0),
		}
		assert.Equal(t, 60, newTestScorer().Score(loans))
	})

	t.Run("fractional ratio truncates", func(t *testing.T) {
		loans := []domain.Loan{
			loanStarted(lastYear, 4),
			loanStarted(lastYear, 3),
		}
		// 50 + (7/24)*20 + 10 = 65.83...
		assert.Equal(t, 65, newTestScorer().Score(loans))
	})

	t.Run("pathological history stays clamped", func(t *testing.T) {
		// A loan reporting far more on-time EMIs than a nominal year holds.
		overAchiever := []domain.Loan{loanStarted(lastYear, 1000)}
		assert.Equal(t, 100, newTestScorer().Score(overAchiever))

		crowd := make([]domain.Loan, 1000)
		for i := range crowd {
			crowd[i] = loanStarted(thisYear, 12)
		}
		got := newTestScorer().Score(crowd)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	})
}
