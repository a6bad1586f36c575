package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	customerhdl "github.com/dimasprakoso/loansystem/internal/handler/customer"
	loanhdl "github.com/dimasprakoso/loansystem/internal/handler/loan"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func setupCustomerApp(handler *customerhdl.CustomerHandler) *fiber.App {
	app := fiber.New()

	app.Post("/register", handler.Register)
	app.Get("/admin/customers", handler.ListCustomers)

	return app
}

func setupLoanApp(handler *loanhdl.LoanHandler) *fiber.App {
	app := fiber.New()

	app.Post("/check-eligibility", handler.CheckEligibility)
	app.Post("/create-loan", handler.CreateLoan)
	app.Get("/view-loan/:loanId", handler.ViewLoan)
	app.Get("/view-loans/:customerId", handler.ViewLoans)

	return app
}

// jsonRequest builds a request carrying the given payload as a JSON body.
func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}
