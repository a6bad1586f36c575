package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents the customers table
type Customer struct {
	ID            uint64          `gorm:"primaryKey" json:"id"`
	FirstName     string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName      string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Age           int             `gorm:"not null" json:"age"`
	MonthlySalary decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_salary"`
	ApprovedLimit decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"approved_limit"`
	PhoneNumber   string          `gorm:"type:varchar(20);not null" json:"phone_number"`
	CurrentDebt   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"current_debt"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Loans []Loan `gorm:"foreignKey:CustomerID" json:"loans,omitempty"`
}

// Loan represents the loans table
type Loan struct {
	ID               uint64          `gorm:"primaryKey" json:"id"`
	CustomerID       uint64          `gorm:"not null;index" json:"customer_id"`
	LoanAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"loan_amount"`
	InterestRate     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	TenureMonths     int             `gorm:"not null" json:"tenure_months"`
	MonthlyRepayment decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_repayment"`
	EMIsPaidOnTime   int             `gorm:"not null;default:0" json:"emis_paid_on_time"`
	StartDate        time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate          time.Time       `gorm:"type:date;not null" json:"end_date"`

	Customer Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer"`
}

func (Customer) TableName() string {
	return "customers"
}

func (Loan) TableName() string {
	return "loans"
}

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Loan{},
	)
}
