package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dimasprakoso/loansystem/config"
	mysqldb "github.com/dimasprakoso/loansystem/infra/mysql"
	"github.com/dimasprakoso/loansystem/internal/importer"
	"github.com/dimasprakoso/loansystem/internal/model"
	customerrepo "github.com/dimasprakoso/loansystem/internal/repository/customer"
	loanrepo "github.com/dimasprakoso/loansystem/internal/repository/loan"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// One-shot loader for the customer and loan workbooks. Uses noop telemetry
// since there is no collector in a batch run.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	customerPath := flag.String("customers", cfg.CUSTOMER_DATA_PATH, "path to the customer workbook")
	loanPath := flag.String("loans", cfg.LOAN_DATA_PATH, "path to the loan workbook")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := mysqldb.InitializeDatabase()
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx := context.Background()

	if err := model.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	meter := otel.GetMeterProvider().Meter("import-cli")
	tracer := otel.GetTracerProvider().Tracer("import-cli")

	customerRepository := customerrepo.NewCustomerRepository(db, meter, tracer, log)
	loanRepository := loanrepo.NewLoanRepository(db, meter, tracer, log)

	imp := importer.NewImporter(customerRepository, loanRepository, log)

	summary, err := imp.ImportAll(ctx, *customerPath, *loanPath)
	if err != nil {
		log.Fatal("Import failed", zap.Error(err))
	}

	log.Info("Import complete",
		zap.Int("customers_imported", summary.CustomersImported),
		zap.Int("loans_imported", summary.LoansImported),
		zap.Int("skipped_rows", len(summary.SkippedRows)),
	)

	for _, row := range summary.SkippedRows {
		log.Warn("Skipped row", zap.String("detail", row))
	}

	if err := mysqldb.Close(db, ctx); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
}
