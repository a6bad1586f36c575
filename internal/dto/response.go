package dto

import (
	"fmt"

	"github.com/dimasprakoso/loansystem/internal/domain"
)

type RegisterResponse struct {
	CustomerID    uint64  `json:"customer_id"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   string  `json:"phone_number"`
}

type EligibilityResponse struct {
	CustomerID            uint64  `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
}

type CreateLoanResponse struct {
	LoanID             *uint64  `json:"loan_id"`
	CustomerID         uint64   `json:"customer_id"`
	LoanApproved       bool     `json:"loan_approved"`
	Message            string   `json:"message"`
	MonthlyInstallment *float64 `json:"monthly_installment"`
}

type LoanCustomerResponse struct {
	CustomerID  uint64 `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

type LoanDetailResponse struct {
	LoanID             uint64               `json:"loan_id"`
	Customer           LoanCustomerResponse `json:"customer"`
	LoanAmount         float64              `json:"loan_amount"`
	InterestRate       float64              `json:"interest_rate"`
	MonthlyInstallment float64              `json:"monthly_installment"`
	Tenure             int                  `json:"tenure"`
}

type LoanSummaryResponse struct {
	LoanID             uint64  `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

type CustomerResponse struct {
	CustomerID    uint64  `json:"customer_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Age           int     `json:"age"`
	MonthlySalary float64 `json:"monthly_salary"`
	ApprovedLimit float64 `json:"approved_limit"`
	CurrentDebt   float64 `json:"current_debt"`
	PhoneNumber   string  `json:"phone_number"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ImportResponse struct {
	CustomersImported int      `json:"customers_imported"`
	LoansImported     int      `json:"loans_imported"`
	SkippedRows       []string `json:"skipped_rows,omitempty"`
}

// --- Mapping --- //

// Decimals become floats only here, for external reporting.

func RegisterFromEntity(customer *domain.Customer) RegisterResponse {
	return RegisterResponse{
		CustomerID:    customer.ID,
		Name:          fmt.Sprintf("%s %s", customer.FirstName, customer.LastName),
		Age:           customer.Age,
		MonthlyIncome: customer.MonthlySalary.InexactFloat64(),
		ApprovedLimit: customer.ApprovedLimit.InexactFloat64(),
		PhoneNumber:   customer.PhoneNumber,
	}
}

func CustomersFromEntity(customers []domain.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = CustomerResponse{
			CustomerID:    c.ID,
			FirstName:     c.FirstName,
			LastName:      c.LastName,
			Age:           c.Age,
			MonthlySalary: c.MonthlySalary.InexactFloat64(),
			ApprovedLimit: c.ApprovedLimit.InexactFloat64(),
			CurrentDebt:   c.CurrentDebt.InexactFloat64(),
			PhoneNumber:   c.PhoneNumber,
		}
	}

	return responses
}

func PaginatedFromEntity(page *domain.Paginated) PaginatedResponse {
	response := PaginatedResponse{
		Data:       page.Data,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
	if customers, ok := page.Data.([]domain.Customer); ok {
		response.Data = CustomersFromEntity(customers)
	}

	return response
}

func EligibilityFromEntity(result *domain.EligibilityResult) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            result.CustomerID,
		Approval:              result.Approved,
		InterestRate:          result.InterestRate.InexactFloat64(),
		CorrectedInterestRate: result.CorrectedInterestRate.InexactFloat64(),
		Tenure:                result.TenureMonths,
		MonthlyInstallment:    result.MonthlyInstallment.InexactFloat64(),
	}
}

func CreateLoanFromEntity(result *domain.IssueResult) CreateLoanResponse {
	installment := result.MonthlyInstallment.InexactFloat64()
	return CreateLoanResponse{
		LoanID:             result.LoanID,
		CustomerID:         result.CustomerID,
		LoanApproved:       result.Approved,
		Message:            result.Message,
		MonthlyInstallment: &installment,
	}
}

func LoanDetailFromEntity(detail *domain.LoanDetail) LoanDetailResponse {
	return LoanDetailResponse{
		LoanID: detail.Loan.ID,
		Customer: LoanCustomerResponse{
			CustomerID:  detail.Customer.ID,
			FirstName:   detail.Customer.FirstName,
			LastName:    detail.Customer.LastName,
			PhoneNumber: detail.Customer.PhoneNumber,
			Age:         detail.Customer.Age,
		},
		LoanAmount:         detail.Loan.LoanAmount.InexactFloat64(),
		InterestRate:       detail.Loan.InterestRate.InexactFloat64(),
		MonthlyInstallment: detail.Loan.MonthlyRepayment.InexactFloat64(),
		Tenure:             detail.Loan.TenureMonths,
	}
}

func LoanSummariesFromEntity(summaries []domain.LoanSummary) []LoanSummaryResponse {
	responses := make([]LoanSummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = LoanSummaryResponse{
			LoanID:             s.LoanID,
			LoanAmount:         s.LoanAmount.InexactFloat64(),
			InterestRate:       s.InterestRate.InexactFloat64(),
			MonthlyInstallment: s.MonthlyInstallment.InexactFloat64(),
			RepaymentsLeft:     s.RepaymentsLeft,
		}
	}

	return responses
}
