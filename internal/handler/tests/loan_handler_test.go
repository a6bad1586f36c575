package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/dto"
	loanhdl "github.com/dimasprakoso/loansystem/internal/handler/loan"
	"github.com/dimasprakoso/loansystem/pkg/common"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoanHandler_CheckEligibility(t *testing.T) {
	// Arrange
	mockService := &mockLoanService{}
	handler := loanhdl.NewLoanHandler(mockService, zap.NewNop())
	app := setupLoanApp(handler)

	payload := dto.EligibilityRequest{
		CustomerID:   3,
		LoanAmount:   100000,
		InterestRate: 8,
		Tenure:       12,
	}

	t.Run("Success", func(t *testing.T) {
		mockService.MockError = nil
		mockService.MockEligibilityResult = &domain.EligibilityResult{
			CustomerID:            3,
			Approved:              true,
			InterestRate:          decimal.NewFromInt(8),
			CorrectedInterestRate: decimal.NewFromInt(12),
			TenureMonths:          12,
			MonthlyInstallment:    decimal.NewFromFloat(8791.59),
		}

		// Act
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/check-eligibility", payload))
		assert.NoError(t, err)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.EligibilityResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		assert.NoError(t, err)
		assert.Equal(t, uint64(3), result.CustomerID)
		assert.True(t, result.Approval)
		assert.Equal(t, float64(12), result.CorrectedInterestRate)
		assert.Equal(t, 8791.59, result.MonthlyInstallment)
	})

	t.Run("Customer Not Found", func(t *testing.T) {
		mockService.MockError = common.ErrCustomerNotFound

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/check-eligibility", payload))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid Tenure From Service", func(t *testing.T) {
		mockService.MockError = common.ErrInvalidTenure

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/check-eligibility", payload))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Validation Rejects Zero Amount", func(t *testing.T) {
		mockService.MockError = nil
		bad := payload
		bad.LoanAmount = 0

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/check-eligibility", bad))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unexpected Error", func(t *testing.T) {
		mockService.MockError = errors.New("database gone")

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/check-eligibility", payload))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestLoanHandler_CreateLoan(t *testing.T) {
	// Arrange
	mockService := &mockLoanService{}
	handler := loanhdl.NewLoanHandler(mockService, zap.NewNop())
	app := setupLoanApp(handler)

	payload := dto.CreateLoanRequest{
		CustomerID:   3,
		LoanAmount:   100000,
		InterestRate: 10,
		Tenure:       12,
	}

	t.Run("Approved", func(t *testing.T) {
		loanID := uint64(42)
		mockService.MockError = nil
		mockService.MockIssueResult = &domain.IssueResult{
			LoanID:             &loanID,
			CustomerID:         3,
			Approved:           true,
			Message:            "Loan approved",
			MonthlyInstallment: decimal.NewFromFloat(8791.59),
		}

		// Act
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/create-loan", payload))
		assert.NoError(t, err)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.CreateLoanResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		assert.NoError(t, err)
		assert.NotNil(t, result.LoanID)
		assert.Equal(t, loanID, *result.LoanID)
		assert.True(t, result.LoanApproved)
	})

	t.Run("Rejected Is Still OK", func(t *testing.T) {
		mockService.MockError = nil
		mockService.MockIssueResult = &domain.IssueResult{
			CustomerID: 3,
			Approved:   false,
			Message:    "Loan not approved based on eligibility criteria",
		}

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/create-loan", payload))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.CreateLoanResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Nil(t, result.LoanID)
		assert.False(t, result.LoanApproved)
	})

	t.Run("Issuance Contention", func(t *testing.T) {
		mockService.MockError = common.ErrIssuanceLocked

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/create-loan", payload))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Customer Not Found", func(t *testing.T) {
		mockService.MockError = common.ErrCustomerNotFound

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/create-loan", payload))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLoanHandler_ViewLoan(t *testing.T) {
	// Arrange
	mockService := &mockLoanService{}
	handler := loanhdl.NewLoanHandler(mockService, zap.NewNop())
	app := setupLoanApp(handler)

	t.Run("Success", func(t *testing.T) {
		mockService.MockError = nil
		mockService.MockLoanDetail = &domain.LoanDetail{
			Loan: domain.Loan{
				ID:               42,
				CustomerID:       3,
				LoanAmount:       decimal.NewFromInt(100000),
				InterestRate:     decimal.NewFromInt(10),
				TenureMonths:     12,
				MonthlyRepayment: decimal.NewFromFloat(8791.59),
			},
			Customer: domain.Customer{
				ID:          3,
				FirstName:   "Siti",
				LastName:    "Rahma",
				PhoneNumber: "081234567890",
				Age:         31,
			},
		}

		// Act
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/view-loan/42", nil))
		assert.NoError(t, err)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.LoanDetailResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		assert.NoError(t, err)
		assert.Equal(t, uint64(42), result.LoanID)
		assert.Equal(t, "Siti", result.Customer.FirstName)
		assert.Equal(t, 12, result.Tenure)
	})

	t.Run("Loan Not Found", func(t *testing.T) {
		mockService.MockError = common.ErrLoanNotFound

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/view-loan/999", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Non Numeric ID", func(t *testing.T) {
		mockService.MockError = nil

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/view-loan/abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoanHandler_ViewLoans(t *testing.T) {
	// Arrange
	mockService := &mockLoanService{}
	handler := loanhdl.NewLoanHandler(mockService, zap.NewNop())
	app := setupLoanApp(handler)

	t.Run("Success", func(t *testing.T) {
		mockService.MockError = nil
		mockService.MockSummaries = []domain.LoanSummary{
			{
				LoanID:             42,
				LoanAmount:         decimal.NewFromInt(100000),
				InterestRate:       decimal.NewFromInt(10),
				MonthlyInstallment: decimal.NewFromFloat(8791.59),
				RepaymentsLeft:     7,
			},
		}

		// Act
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/view-loans/3", nil))
		assert.NoError(t, err)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result []dto.LoanSummaryResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, 7, result[0].RepaymentsLeft)
	})

	t.Run("Customer Not Found", func(t *testing.T) {
		mockService.MockError = common.ErrCustomerNotFound

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/view-loans/999", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
