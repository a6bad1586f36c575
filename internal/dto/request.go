package dto

import (
	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	Age           int     `json:"age" validate:"required,gte=18,lte=120"`
	MonthlySalary float64 `json:"monthly_salary" validate:"required,gt=0"`
	PhoneNumber   string  `json:"phone_number" validate:"required,min=7,max=20"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EligibilityRequest struct {
	CustomerID   uint64  `json:"customer_id" validate:"required"`
	LoanAmount   float64 `json:"loan_amount" validate:"required,gt=0"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0"`
	Tenure       int     `json:"tenure" validate:"required,gte=1"`
}

type CreateLoanRequest struct {
	CustomerID   uint64  `json:"customer_id" validate:"required"`
	LoanAmount   float64 `json:"loan_amount" validate:"required,gt=0"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0"`
	Tenure       int     `json:"tenure" validate:"required,gte=1"`
}

// --- Mapping --- //

// Float inputs are converted to decimals here, at the transport boundary;
// everything past this point is fixed-point.

func RegisterToEntity(req RegisterRequest) *domain.Customer {
	return &domain.Customer{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		MonthlySalary: decimal.NewFromFloat(req.MonthlySalary),
		PhoneNumber:   req.PhoneNumber,
	}
}

func EligibilityToApplication(req EligibilityRequest) domain.LoanApplication {
	return domain.LoanApplication{
		CustomerID:   req.CustomerID,
		Amount:       decimal.NewFromFloat(req.LoanAmount),
		InterestRate: decimal.NewFromFloat(req.InterestRate),
		TenureMonths: req.Tenure,
	}
}

func CreateLoanToApplication(req CreateLoanRequest) domain.LoanApplication {
	return domain.LoanApplication{
		CustomerID:   req.CustomerID,
		Amount:       decimal.NewFromFloat(req.LoanAmount),
		InterestRate: decimal.NewFromFloat(req.InterestRate),
		TenureMonths: req.Tenure,
	}
}
