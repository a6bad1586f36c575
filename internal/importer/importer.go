package importer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Expected column headers in the import workbooks.
const (
	colCustomerID     = "Customer ID"
	colFirstName      = "First Name"
	colLastName       = "Last Name"
	colAge            = "Age"
	colPhoneNumber    = "Phone Number"
	colMonthlySalary  = "Monthly Salary"
	colApprovedLimit  = "Approved Limit"
	colLoanID         = "Loan ID"
	colLoanAmount     = "Loan Amount"
	colInterestRate   = "Interest Rate"
	colTenure         = "Tenure"
	colMonthlyPayment = "Monthly payment"
	colEMIsPaid       = "EMIs paid on Time"
	colDateOfApproval = "Date of Approval"
	colEndDate        = "End Date"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
	"02/01/2006",
}

type Summary struct {
	CustomersImported int
	LoansImported     int
	SkippedRows       []string
}

// Importer loads customer and loan workbooks into the repositories.
// Customers are create-if-absent, loans upsert by their external id; a bad
// row is logged and skipped, never aborting the batch.
type Importer struct {
	customerRepository repository.CustomerRepository
	loanRepository     repository.LoanRepository
	log                *zap.Logger
}

func NewImporter(
	customerRepository repository.CustomerRepository,
	loanRepository repository.LoanRepository,
	log *zap.Logger,
) *Importer {
	return &Importer{
		customerRepository: customerRepository,
		loanRepository:     loanRepository,
		log:                log,
	}
}

// ImportAll loads both workbooks, customers first so loan rows can resolve
// their owners.
func (i *Importer) ImportAll(ctx context.Context, customerPath, loanPath string) (*Summary, error) {
	summary := &Summary{}

	customers, skipped, err := i.ImportCustomers(ctx, customerPath)
	if err != nil {
		return nil, fmt.Errorf("importing customers: %w", err)
	}
	summary.CustomersImported = customers
	summary.SkippedRows = append(summary.SkippedRows, skipped...)

	loans, skipped, err := i.ImportLoans(ctx, loanPath)
	if err != nil {
		return nil, fmt.Errorf("importing loans: %w", err)
	}
	summary.LoansImported = loans
	summary.SkippedRows = append(summary.SkippedRows, skipped...)

	return summary, nil
}

func (i *Importer) ImportCustomers(ctx context.Context, path string) (int, []string, error) {
	rows, header, err := readSheet(path)
	if err != nil {
		return 0, nil, err
	}

	imported := 0
	var skipped []string

	for n, row := range rows {
		customer, err := parseCustomerRow(row, header)
		if err != nil {
			msg := fmt.Sprintf("customer row %d: %v", n+2, err)
			i.log.Warn("Skipping customer row", zap.Int("row", n+2), zap.Error(err))
			skipped = append(skipped, msg)
			continue
		}

		existing, err := i.customerRepository.FindByID(ctx, customer.ID)
		if err != nil {
			return imported, skipped, err
		}
		if existing != nil {
			// keyed by externally assigned id; first write wins
			continue
		}

		if _, err := i.customerRepository.Create(ctx, customer); err != nil {
			msg := fmt.Sprintf("customer row %d (id %d): %v", n+2, customer.ID, err)
			i.log.Warn("Failed to create imported customer", zap.Uint64("customer_id", customer.ID), zap.Error(err))
			skipped = append(skipped, msg)
			continue
		}
		imported++
	}

	i.log.Info("Customer import completed",
		zap.String("path", path),
		zap.Int("imported", imported),
		zap.Int("skipped", len(skipped)),
	)

	return imported, skipped, nil
}

func (i *Importer) ImportLoans(ctx context.Context, path string) (int, []string, error) {
	rows, header, err := readSheet(path)
	if err != nil {
		return 0, nil, err
	}

	imported := 0
	var skipped []string

	for n, row := range rows {
		loan, err := parseLoanRow(row, header)
		if err != nil {
			msg := fmt.Sprintf("loan row %d: %v", n+2, err)
			i.log.Warn("Skipping loan row", zap.Int("row", n+2), zap.Error(err))
			skipped = append(skipped, msg)
			continue
		}

		owner, err := i.customerRepository.FindByID(ctx, loan.CustomerID)
		if err != nil {
			return imported, skipped, err
		}
		if owner == nil {
			msg := fmt.Sprintf("loan row %d: customer %d does not exist, skipping", n+2, loan.CustomerID)
			i.log.Warn("Loan references missing customer",
				zap.Uint64("loan_id", loan.ID),
				zap.Uint64("customer_id", loan.CustomerID),
			)
			skipped = append(skipped, msg)
			continue
		}

		if err := i.loanRepository.Upsert(ctx, loan); err != nil {
			msg := fmt.Sprintf("loan row %d (id %d): %v", n+2, loan.ID, err)
			i.log.Warn("Failed to upsert imported loan", zap.Uint64("loan_id", loan.ID), zap.Error(err))
			skipped = append(skipped, msg)
			continue
		}
		imported++
	}

	i.log.Info("Loan import completed",
		zap.String("path", path),
		zap.Int("imported", imported),
		zap.Int("skipped", len(skipped)),
	)

	return imported, skipped, nil
}

// readSheet returns the data rows and a header-name index for the first
// sheet of the workbook.
func readSheet(path string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("workbook %s has no header row", path)
	}

	header := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		header[name] = idx
	}

	return rows[1:], header, nil
}

func cell(row []string, header map[string]int, name string) (string, error) {
	idx, ok := header[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	if idx >= len(row) {
		return "", fmt.Errorf("empty cell in column %q", name)
	}
	return row[idx], nil
}

func parseUint(row []string, header map[string]int, name string) (uint64, error) {
	raw, err := cell(row, header, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func parseInt(row []string, header map[string]int, name string) (int, error) {
	raw, err := cell(row, header, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func parseDecimal(row []string, header map[string]int, name string) (decimal.Decimal, error) {
	raw, err := cell(row, header, name)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func parseDate(row []string, header map[string]int, name string) (time.Time, error) {
	raw, err := cell(row, header, name)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("column %q: unrecognized date %q", name, raw)
}

func parseCustomerRow(row []string, header map[string]int) (*domain.Customer, error) {
	id, err := parseUint(row, header, colCustomerID)
	if err != nil {
		return nil, err
	}
	firstName, err := cell(row, header, colFirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := cell(row, header, colLastName)
	if err != nil {
		return nil, err
	}
	age, err := parseInt(row, header, colAge)
	if err != nil {
		return nil, err
	}
	phone, err := cell(row, header, colPhoneNumber)
	if err != nil {
		return nil, err
	}
	salary, err := parseDecimal(row, header, colMonthlySalary)
	if err != nil {
		return nil, err
	}
	limit, err := parseDecimal(row, header, colApprovedLimit)
	if err != nil {
		return nil, err
	}

	return &domain.Customer{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		MonthlySalary: salary,
		ApprovedLimit: limit,
		PhoneNumber:   phone,
		CurrentDebt:   decimal.Zero,
	}, nil
}

func parseLoanRow(row []string, header map[string]int) (*domain.Loan, error) {
	id, err := parseUint(row, header, colLoanID)
	if err != nil {
		return nil, err
	}
	customerID, err := parseUint(row, header, colCustomerID)
	if err != nil {
		return nil, err
	}
	amount, err := parseDecimal(row, header, colLoanAmount)
	if err != nil {
		return nil, err
	}
	rate, err := parseDecimal(row, header, colInterestRate)
	if err != nil {
		return nil, err
	}
	tenure, err := parseInt(row, header, colTenure)
	if err != nil {
		return nil, err
	}
	repayment, err := parseDecimal(row, header, colMonthlyPayment)
	if err != nil {
		return nil, err
	}
	paidOnTime, err := parseInt(row, header, colEMIsPaid)
	if err != nil {
		return nil, err
	}
	startDate, err := parseDate(row, header, colDateOfApproval)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(row, header, colEndDate)
	if err != nil {
		return nil, err
	}

	return &domain.Loan{
		ID:               id,
		CustomerID:       customerID,
		LoanAmount:       amount,
		InterestRate:     rate,
		TenureMonths:     tenure,
		MonthlyRepayment: repayment,
		EMIsPaidOnTime:   paidOnTime,
		StartDate:        startDate,
		EndDate:          endDate,
	}, nil
}
