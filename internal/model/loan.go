package model

import (
	"github.com/dimasprakoso/loansystem/internal/domain"
)

func LoanFromEntity(data *domain.Loan) Loan {
	return Loan{
		ID:               data.ID,
		CustomerID:       data.CustomerID,
		LoanAmount:       data.LoanAmount,
		InterestRate:     data.InterestRate,
		TenureMonths:     data.TenureMonths,
		MonthlyRepayment: data.MonthlyRepayment,
		EMIsPaidOnTime:   data.EMIsPaidOnTime,
		StartDate:        data.StartDate,
		EndDate:          data.EndDate,
	}
}

func LoanToEntity(data Loan) *domain.Loan {
	return &domain.Loan{
		ID:               data.ID,
		CustomerID:       data.CustomerID,
		LoanAmount:       data.LoanAmount,
		InterestRate:     data.InterestRate,
		TenureMonths:     data.TenureMonths,
		MonthlyRepayment: data.MonthlyRepayment,
		EMIsPaidOnTime:   data.EMIsPaidOnTime,
		StartDate:        data.StartDate,
		EndDate:          data.EndDate,
	}
}

func LoansToEntity(data []Loan) []domain.Loan {
	responses := make([]domain.Loan, len(data))
	for i, l := range data {
		responses[i] = *LoanToEntity(l)
	}

	return responses
}
