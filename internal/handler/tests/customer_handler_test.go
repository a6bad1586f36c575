package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/dto"
	customerhdl "github.com/dimasprakoso/loansystem/internal/handler/customer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCustomerHandler_Register(t *testing.T) {
	// Arrange
	mockService := &mockCustomerService{}
	handler := customerhdl.NewCustomerHandler(mockService, zap.NewNop())
	app := setupCustomerApp(handler)

	payload := dto.RegisterRequest{
		FirstName:     "Siti",
		LastName:      "Rahma",
		Age:           31,
		MonthlySalary: 123456,
		PhoneNumber:   "081234567890",
	}

	t.Run("Success", func(t *testing.T) {
		mockService.MockError = nil
		mockService.MockRegisterResult = &domain.Customer{
			ID:            7,
			FirstName:     "Siti",
			LastName:      "Rahma",
			Age:           31,
			MonthlySalary: decimal.NewFromInt(123456),
			ApprovedLimit: decimal.NewFromInt(4400000),
			PhoneNumber:   "081234567890",
		}

		// Act
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/register", payload))
		assert.NoError(t, err)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result dto.RegisterResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		assert.NoError(t, err)
		assert.Equal(t, uint64(7), result.CustomerID)
		assert.Equal(t, "Siti Rahma", result.Name)
		assert.Equal(t, float64(4400000), result.ApprovedLimit)
	})

	t.Run("Validation Rejects Underage", func(t *testing.T) {
		mockService.MockError = nil
		bad := payload
		bad.Age = 15

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/register", bad))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Service Failure", func(t *testing.T) {
		mockService.MockError = errors.New("database gone")

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/register", payload))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestCustomerHandler_ListCustomers(t *testing.T) {
	// Arrange
	mockService := &mockCustomerService{}
	handler := customerhdl.NewCustomerHandler(mockService, zap.NewNop())
	app := setupCustomerApp(handler)

	t.Run("Success", func(t *testing.T) {
		mockService.MockError = nil
		mockService.MockListResult = &domain.Paginated{
			Data: []domain.Customer{
				{
					ID:            7,
					FirstName:     "Siti",
					LastName:      "Rahma",
					Age:           31,
					MonthlySalary: decimal.NewFromInt(123456),
					ApprovedLimit: decimal.NewFromInt(4400000),
					PhoneNumber:   "081234567890",
				},
			},
			Total:      45,
			Page:       2,
			Limit:      20,
			TotalPages: 3,
		}

		// Act
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/customers?page=2&limit=20", nil))
		assert.NoError(t, err)
		defer resp.Body.Close()

		// Assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Data       []dto.CustomerResponse `json:"data"`
			Total      int64                  `json:"total"`
			TotalPages int                    `json:"total_pages"`
		}
		err = json.NewDecoder(resp.Body).Decode(&result)
		assert.NoError(t, err)
		assert.Len(t, result.Data, 1)
		assert.Equal(t, "Siti", result.Data[0].FirstName)
		assert.Equal(t, int64(45), result.Total)
		assert.Equal(t, 3, result.TotalPages)
	})

	t.Run("Service Failure", func(t *testing.T) {
		mockService.MockError = errors.New("database gone")

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/customers", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
