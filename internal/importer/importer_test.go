package importer_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/importer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type stubCustomerRepository struct {
	existing map[uint64]*domain.Customer
	created  []*domain.Customer
}

func (s *stubCustomerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	s.created = append(s.created, customer)
	if s.existing == nil {
		s.existing = make(map[uint64]*domain.Customer)
	}
	s.existing[customer.ID] = customer
	return customer, nil
}

func (s *stubCustomerRepository) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	return s.existing[id], nil
}

func (s *stubCustomerRepository) NextID(ctx context.Context) (uint64, error) {
	return uint64(len(s.existing)) + 1, nil
}

func (s *stubCustomerRepository) FindPaginated(ctx context.Context, params domain.Params) ([]domain.Customer, int64, error) {
	return nil, 0, nil
}

type stubLoanRepository struct {
	upserted []*domain.Loan
}

func (s *stubLoanRepository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	return loan, nil
}

func (s *stubLoanRepository) Upsert(ctx context.Context, loan *domain.Loan) error {
	s.upserted = append(s.upserted, loan)
	return nil
}

func (s *stubLoanRepository) FindByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	return nil, nil
}

func (s *stubLoanRepository) FindAllByCustomerID(ctx context.Context, customerID uint64) ([]domain.Loan, error) {
	return nil, nil
}

func (s *stubLoanRepository) NextID(ctx context.Context) (uint64, error) {
	return 1, nil
}

func (s *stubLoanRepository) SumMonthlyRepaymentByCustomerID(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for n, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, n+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestImportAll(t *testing.T) {
	dir := t.TempDir()
	customerPath := filepath.Join(dir, "customer_data.xlsx")
	loanPath := filepath.Join(dir, "loan_data.xlsx")

	writeWorkbook(t, customerPath, [][]any{
		{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit"},
		{"1", "Aisha", "Rahman", "31", "9876543210", "50000", "1800000"},
		{"2", "Budi", "Santoso", "45", "9123456780", "75000", "2700000"},
		{"x", "Bad", "Row", "20", "911", "1000", "36000"},
	})

	writeWorkbook(t, loanPath, [][]any{
		{"Customer ID", "Loan ID", "Loan Amount", "Tenure", "Interest Rate", "Monthly payment", "EMIs paid on Time", "Date of Approval", "End Date"},
		{"1", "101", "100000", "12", "10", "8792", "6", "2023-08-01", "2024-07-26"},
		{"2", "102", "50000", "6", "14", "8635", "3", "2024-01-15", "2024-07-13"},
		{"9", "103", "25000", "6", "12", "4313", "0", "2024-02-01", "2024-07-30"},
	})

	customerRepo := &stubCustomerRepository{}
	loanRepo := &stubLoanRepository{}
	imp := importer.NewImporter(customerRepo, loanRepo, zap.NewNop())

	summary, err := imp.ImportAll(context.Background(), customerPath, loanPath)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.CustomersImported)
	assert.Equal(t, 2, summary.LoansImported)
	// One malformed customer id, one loan pointing at a missing customer.
	assert.Len(t, summary.SkippedRows, 2)

	require.Len(t, customerRepo.created, 2)
	aisha := customerRepo.created[0]
	assert.Equal(t, uint64(1), aisha.ID)
	assert.Equal(t, "Aisha", aisha.FirstName)
	assert.True(t, aisha.MonthlySalary.Equal(decimal.NewFromInt(50000)))
	assert.True(t, aisha.ApprovedLimit.Equal(decimal.NewFromInt(1800000)))
	assert.True(t, aisha.CurrentDebt.IsZero())

	require.Len(t, loanRepo.upserted, 2)
	first := loanRepo.upserted[0]
	assert.Equal(t, uint64(101), first.ID)
	assert.Equal(t, uint64(1), first.CustomerID)
	assert.Equal(t, 12, first.TenureMonths)
	assert.Equal(t, 6, first.EMIsPaidOnTime)
	assert.Equal(t, 2023, first.StartDate.Year())
}

func TestImportCustomersIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "customer_data.xlsx")

	writeWorkbook(t, path, [][]any{
		{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit"},
		{"1", "Aisha", "Rahman", "31", "9876543210", "50000", "1800000"},
	})

	customerRepo := &stubCustomerRepository{}
	imp := importer.NewImporter(customerRepo, &stubLoanRepository{}, zap.NewNop())

	imported, skipped, err := imp.ImportCustomers(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Empty(t, skipped)

	// Second run sees the existing row and leaves it alone.
	imported, skipped, err = imp.ImportCustomers(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
	assert.Empty(t, skipped)
	assert.Len(t, customerRepo.created, 1)
}

func TestImportMissingWorkbook(t *testing.T) {
	imp := importer.NewImporter(&stubCustomerRepository{}, &stubLoanRepository{}, zap.NewNop())

	_, _, err := imp.ImportCustomers(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
