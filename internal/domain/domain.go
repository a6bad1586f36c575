package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID            uint64
	FirstName     string
	LastName      string
	Age           int
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
	PhoneNumber   string
	CurrentDebt   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Loans []Loan
}

type Loan struct {
	ID               uint64
	CustomerID       uint64
	LoanAmount       decimal.Decimal
	InterestRate     decimal.Decimal
	TenureMonths     int
	MonthlyRepayment decimal.Decimal
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          time.Time
}

// LoanApplication is the candidate loan passed to the eligibility engine.
type LoanApplication struct {
	CustomerID   uint64
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
}

type EligibilityResult struct {
	CustomerID            uint64
	Approved              bool
	InterestRate          decimal.Decimal
	CorrectedInterestRate decimal.Decimal
	TenureMonths          int
	MonthlyInstallment    decimal.Decimal
}

type IssueResult struct {
	LoanID             *uint64
	CustomerID         uint64
	Approved           bool
	Message            string
	MonthlyInstallment decimal.Decimal
}

type LoanDetail struct {
	Loan     Loan
	Customer Customer
}

// LoanSummary is one row of a customer's active-loan listing.
type LoanSummary struct {
	LoanID             uint64
	LoanAmount         decimal.Decimal
	InterestRate       decimal.Decimal
	MonthlyInstallment decimal.Decimal
	RepaymentsLeft     int
}

type Params struct {
	Page  int
	Limit int
}

type Paginated struct {
	Data       any
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
