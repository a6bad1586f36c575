package presenter

import (
	"github.com/dimasprakoso/loansystem/config"
	"github.com/dimasprakoso/loansystem/internal/credit"
	adminhdl "github.com/dimasprakoso/loansystem/internal/handler/admin"
	customerhdl "github.com/dimasprakoso/loansystem/internal/handler/customer"
	loanhdl "github.com/dimasprakoso/loansystem/internal/handler/loan"
	"github.com/dimasprakoso/loansystem/internal/importer"
	customerrepo "github.com/dimasprakoso/loansystem/internal/repository/customer"
	loanrepo "github.com/dimasprakoso/loansystem/internal/repository/loan"
	customersrv "github.com/dimasprakoso/loansystem/internal/service/customer"
	loansrv "github.com/dimasprakoso/loansystem/internal/service/loan"
	"github.com/dimasprakoso/loansystem/pkg/lock"
	"github.com/dimasprakoso/loansystem/pkg/telemetry"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Presenter struct {
	CustomerPresenter *customerhdl.CustomerHandler
	LoanPresenter     *loanhdl.LoanHandler
	AdminPresenter    *adminhdl.AdminHandler
}

func NewPresenter(
	db *gorm.DB,
	redisClient *redis.Client,
	cfg *config.Config,
	tel *telemetry.OpenTelemetry,
) Presenter {
	// Repository
	customerRepositoryMeter := tel.MeterProvider.Meter("customer-repository-meter")
	customerRepositoryTracer := tel.TracerProvider.Tracer("customer-repository-tracer")
	customerRepository := customerrepo.NewCustomerRepository(
		db,
		customerRepositoryMeter,
		customerRepositoryTracer,
		tel.Log,
	)

	loanRepositoryMeter := tel.MeterProvider.Meter("loan-repository-meter")
	loanRepositoryTracer := tel.TracerProvider.Tracer("loan-repository-tracer")
	loanRepository := loanrepo.NewLoanRepository(
		db,
		loanRepositoryMeter,
		loanRepositoryTracer,
		tel.Log,
	)

	// Credit engine
	clock := credit.SystemClock()
	engine := credit.NewEngine(credit.NewScorer(clock))
	issuanceLock := lock.NewCustomerLock(redisClient, cfg.ISSUANCE_LOCK_TTL)

	// Service
	customerServiceMeter := tel.MeterProvider.Meter("customer-service-meter")
	customerServiceTracer := tel.TracerProvider.Tracer("customer-service-trace")
	customerService := customersrv.NewCustomerService(
		customerRepository,
		customerServiceMeter,
		customerServiceTracer,
		tel.Log,
	)

	loanServiceMeter := tel.MeterProvider.Meter("loan-service-meter")
	loanServiceTracer := tel.TracerProvider.Tracer("loan-service-trace")
	loanService := loansrv.NewLoanService(
		customerRepository,
		loanRepository,
		engine,
		clock,
		issuanceLock,
		loanServiceMeter,
		loanServiceTracer,
		tel.Log,
	)

	dataImporter := importer.NewImporter(customerRepository, loanRepository, tel.Log)

	// Handler
	customerHandler := customerhdl.NewCustomerHandler(customerService, tel.Log)
	loanHandler := loanhdl.NewLoanHandler(loanService, tel.Log)
	adminHandler := adminhdl.NewAdminHandler(
		dataImporter,
		cfg.CUSTOMER_DATA_PATH,
		cfg.LOAN_DATA_PATH,
		cfg.ADMIN_USERNAME,
		cfg.ADMIN_PASSWORD_HASH,
		cfg.JWT_SECRET_KEY,
		cfg.JWT_TOKEN_TTL,
		tel.Log,
	)

	return Presenter{
		CustomerPresenter: customerHandler,
		LoanPresenter:     loanHandler,
		AdminPresenter:    adminHandler,
	}
}
