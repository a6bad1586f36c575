package common

import (
	"errors"
	"os"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrInvalidTenure    = errors.New("tenure must be at least one month")
	ErrNegativeRate     = errors.New("interest rate cannot be negative")
	ErrIssuanceLocked   = errors.New("another loan issuance is in progress for this customer")
)

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}
