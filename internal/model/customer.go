package model

import (
	"github.com/dimasprakoso/loansystem/internal/domain"
)

func CustomerFromEntity(data *domain.Customer) Customer {
	return Customer{
		ID:            data.ID,
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Age:           data.Age,
		MonthlySalary: data.MonthlySalary,
		ApprovedLimit: data.ApprovedLimit,
		PhoneNumber:   data.PhoneNumber,
		CurrentDebt:   data.CurrentDebt,
	}
}

func CustomerToEntity(data Customer) *domain.Customer {
	return &domain.Customer{
		ID:            data.ID,
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Age:           data.Age,
		MonthlySalary: data.MonthlySalary,
		ApprovedLimit: data.ApprovedLimit,
		PhoneNumber:   data.PhoneNumber,
		CurrentDebt:   data.CurrentDebt,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func CustomersToEntity(data []Customer) []domain.Customer {
	responses := make([]domain.Customer, len(data))
	for i, c := range data {
		responses[i] = *CustomerToEntity(c)
	}

	return responses
}
