package loansrv

import (
	"context"
	"time"

	"github.com/dimasprakoso/loansystem/internal/credit"
	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/repository"
	"github.com/dimasprakoso/loansystem/internal/service"
	"github.com/dimasprakoso/loansystem/pkg/common"
	"github.com/dimasprakoso/loansystem/pkg/lock"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// Loan end dates use a fixed 30-day month, matching the imported
	// historical data rather than calendar months.
	daysPerMonth = 30

	messageApproved = "Loan approved"
	messageRejected = "Loan not approved based on eligibility criteria"
)

type loanService struct {
	customerRepository repository.CustomerRepository
	loanRepository     repository.LoanRepository
	engine             *credit.Engine
	clock              credit.Clock
	issuanceLock       lock.IssuanceLock

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	loansIssued       metric.Int64Counter
	loansRejected     metric.Int64Counter
	eligibilityChecks metric.Int64Counter
}

func NewLoanService(
	customerRepository repository.CustomerRepository,
	loanRepository repository.LoanRepository,
	engine *credit.Engine,
	clock credit.Clock,
	issuanceLock lock.IssuanceLock,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.LoanServices {
	operationDuration, _ := meter.Float64Histogram(
		"service.operation.duration",
		metric.WithDescription("Duration of service operations"),
		metric.WithUnit("ms"),
	)

	operationCount, _ := meter.Int64Counter(
		"service.operation.count",
		metric.WithDescription("Number of service operations"),
		metric.WithUnit("{operation}"),
	)

	errorCount, _ := meter.Int64Counter(
		"service.error.count",
		metric.WithDescription("Number of service errors"),
		metric.WithUnit("{error}"),
	)

	loansIssued, _ := meter.Int64Counter(
		"service.loans.issued",
		metric.WithDescription("Number of loans issued"),
		metric.WithUnit("{loan}"),
	)

	loansRejected, _ := meter.Int64Counter(
		"service.loans.rejected",
		metric.WithDescription("Number of loan applications rejected"),
		metric.WithUnit("{loan}"),
	)

	eligibilityChecks, _ := meter.Int64Counter(
		"service.eligibility.checks",
		metric.WithDescription("Number of eligibility checks performed"),
		metric.WithUnit("{check}"),
	)

	return &loanService{
		customerRepository: customerRepository,
		loanRepository:     loanRepository,
		engine:             engine,
		clock:              clock,
		issuanceLock:       issuanceLock,

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
		loansIssued:       loansIssued,
		loansRejected:     loansRejected,
		eligibilityChecks: eligibilityChecks,
	}
}

func (s *loanService) finish(ctx context.Context, operation, status string, start time.Time) {
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "loan"),
			attribute.String("status", status),
		),
	)
}

func (s *loanService) fail(ctx context.Context, operation, errorType string) {
	s.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "loan"),
			attribute.String("error_type", errorType),
		),
	)
}

// evaluate fetches the customer, their loans, and their aggregate monthly
// repayment, then runs the eligibility engine. Shared by CheckEligibility and
// CreateLoan so both render identical decisions for the same snapshot.
func (s *loanService) evaluate(ctx context.Context, application domain.LoanApplication) (*domain.EligibilityResult, error) {
	customer, err := s.customerRepository.FindByID(ctx, application.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, common.ErrCustomerNotFound
	}

	existingLoans, err := s.loanRepository.FindAllByCustomerID(ctx, application.CustomerID)
	if err != nil {
		return nil, err
	}

	// The affordability gate uses the database-side aggregate so it matches
	// what is actually booked, while the loan rows feed the scorer.
	currentEMITotal, err := s.loanRepository.SumMonthlyRepaymentByCustomerID(ctx, application.CustomerID)
	if err != nil {
		return nil, err
	}

	return s.engine.Evaluate(customer, application, existingLoans, currentEMITotal)
}

// CheckEligibility implements service.LoanServices.
func (s *loanService) CheckEligibility(ctx context.Context, application domain.LoanApplication) (*domain.EligibilityResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.CheckEligibility")
	defer span.End()

	start := time.Now()

	s.log.Debug("Checking loan eligibility",
		zap.Uint64("customer_id", application.CustomerID),
		zap.String("loan_amount", application.Amount.String()),
		zap.Int("tenure_months", application.TenureMonths),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "check_eligibility"),
			attribute.String("service", "loan"),
		),
	)

	span.SetAttributes(
		attribute.Int64("customer.id", int64(application.CustomerID)),
		attribute.Int("loan.tenure_months", application.TenureMonths),
	)

	result, err := s.evaluate(ctx, application)
	if err != nil {
		span.SetStatus(codes.Error, "Eligibility evaluation failed")
		span.RecordError(err)

		s.log.Warn("Eligibility evaluation failed",
			zap.Uint64("customer_id", application.CustomerID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		s.fail(ctx, "check_eligibility", "evaluation_error")
		s.finish(ctx, "check_eligibility", "error", start)
		return nil, err
	}

	s.eligibilityChecks.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("service", "loan"),
			attribute.Bool("approved", result.Approved),
		),
	)
	s.finish(ctx, "check_eligibility", "success", start)

	s.log.Info("Eligibility check completed",
		zap.Uint64("customer_id", application.CustomerID),
		zap.Bool("approved", result.Approved),
		zap.String("corrected_rate", result.CorrectedInterestRate.String()),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	span.SetStatus(codes.Ok, "Eligibility check completed")
	span.SetAttributes(attribute.Bool("loan.approved", result.Approved))

	return result, nil
}

// CreateLoan implements service.LoanServices. The evaluate-then-persist
// window is serialized per customer so concurrent applications cannot both
// pass the affordability check against the same loan snapshot.
func (s *loanService) CreateLoan(ctx context.Context, application domain.LoanApplication) (*domain.IssueResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateLoan")
	defer span.End()

	start := time.Now()

	s.log.Debug("Creating loan",
		zap.Uint64("customer_id", application.CustomerID),
		zap.String("loan_amount", application.Amount.String()),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "create_loan"),
			attribute.String("service", "loan"),
		),
	)

	span.SetAttributes(
		attribute.Int64("customer.id", int64(application.CustomerID)),
		attribute.Int("loan.tenure_months", application.TenureMonths),
	)

	release, err := s.issuanceLock.Acquire(ctx, application.CustomerID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to acquire issuance lock")
		span.RecordError(err)

		s.fail(ctx, "create_loan", "lock_error")
		s.finish(ctx, "create_loan", "error", start)
		return nil, err
	}
	defer release()

	result, err := s.evaluate(ctx, application)
	if err != nil {
		span.SetStatus(codes.Error, "Eligibility evaluation failed")
		span.RecordError(err)

		s.fail(ctx, "create_loan", "evaluation_error")
		s.finish(ctx, "create_loan", "error", start)
		return nil, err
	}

	if !result.Approved {
		s.loansRejected.Add(ctx, 1,
			metric.WithAttributes(attribute.String("service", "loan")),
		)
		s.finish(ctx, "create_loan", "rejected", start)

		s.log.Info("Loan application rejected",
			zap.Uint64("customer_id", application.CustomerID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)

		span.SetStatus(codes.Ok, "Loan application rejected")

		return &domain.IssueResult{
			CustomerID:         application.CustomerID,
			Approved:           false,
			Message:            messageRejected,
			MonthlyInstallment: result.MonthlyInstallment,
		}, nil
	}

	loanID, err := s.loanRepository.NextID(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to allocate loan id")
		span.RecordError(err)

		s.fail(ctx, "create_loan", "id_allocation_error")
		s.finish(ctx, "create_loan", "error", start)
		return nil, err
	}

	startDate := s.clock.Now()
	loan := &domain.Loan{
		ID:               loanID,
		CustomerID:       application.CustomerID,
		LoanAmount:       application.Amount,
		InterestRate:     result.CorrectedInterestRate,
		TenureMonths:     application.TenureMonths,
		MonthlyRepayment: result.MonthlyInstallment,
		StartDate:        startDate,
		EndDate:          startDate.AddDate(0, 0, daysPerMonth*application.TenureMonths),
	}

	if _, err := s.loanRepository.Create(ctx, loan); err != nil {
		span.SetStatus(codes.Error, "Failed to persist loan")
		span.RecordError(err)

		s.log.Error("Failed to persist loan",
			zap.Uint64("loan_id", loanID),
			zap.Uint64("customer_id", application.CustomerID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		s.fail(ctx, "create_loan", "create_failed")
		s.finish(ctx, "create_loan", "error", start)
		return nil, err
	}

	s.loansIssued.Add(ctx, 1,
		metric.WithAttributes(attribute.String("service", "loan")),
	)
	s.finish(ctx, "create_loan", "success", start)

	s.log.Info("Loan issued successfully",
		zap.Uint64("loan_id", loanID),
		zap.Uint64("customer_id", application.CustomerID),
		zap.String("interest_rate", result.CorrectedInterestRate.String()),
		zap.String("monthly_repayment", result.MonthlyInstallment.String()),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	span.SetStatus(codes.Ok, "Loan issued successfully")
	span.SetAttributes(attribute.Int64("loan.id", int64(loanID)))

	return &domain.IssueResult{
		LoanID:             &loanID,
		CustomerID:         application.CustomerID,
		Approved:           true,
		Message:            messageApproved,
		MonthlyInstallment: result.MonthlyInstallment,
	}, nil
}

// ViewLoan implements service.LoanServices.
func (s *loanService) ViewLoan(ctx context.Context, loanID uint64) (*domain.LoanDetail, error) {
	ctx, span := s.tracer.Start(ctx, "service.ViewLoan")
	defer span.End()

	start := time.Now()

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "view_loan"),
			attribute.String("service", "loan"),
		),
	)

	span.SetAttributes(attribute.Int64("loan.id", int64(loanID)))

	loan, err := s.loanRepository.FindByID(ctx, loanID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch loan")
		span.RecordError(err)

		s.fail(ctx, "view_loan", "repository_error")
		s.finish(ctx, "view_loan", "error", start)
		return nil, err
	}
	if loan == nil {
		s.finish(ctx, "view_loan", "not_found", start)
		span.SetStatus(codes.Ok, "Loan not found")
		return nil, common.ErrLoanNotFound
	}

	customer, err := s.customerRepository.FindByID(ctx, loan.CustomerID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch loan owner")
		span.RecordError(err)

		s.fail(ctx, "view_loan", "repository_error")
		s.finish(ctx, "view_loan", "error", start)
		return nil, err
	}
	if customer == nil {
		// Loans cascade-delete with their customer, so an orphan here means
		// the customer vanished between the two reads.
		s.finish(ctx, "view_loan", "not_found", start)
		return nil, common.ErrCustomerNotFound
	}

	s.finish(ctx, "view_loan", "success", start)
	span.SetStatus(codes.Ok, "Loan retrieved")

	return &domain.LoanDetail{Loan: *loan, Customer: *customer}, nil
}

// ViewLoansByCustomer implements service.LoanServices.
func (s *loanService) ViewLoansByCustomer(ctx context.Context, customerID uint64) ([]domain.LoanSummary, error) {
	ctx, span := s.tracer.Start(ctx, "service.ViewLoansByCustomer")
	defer span.End()

	start := time.Now()

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "view_loans"),
			attribute.String("service", "loan"),
		),
	)

	span.SetAttributes(attribute.Int64("customer.id", int64(customerID)))

	customer, err := s.customerRepository.FindByID(ctx, customerID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch customer")
		span.RecordError(err)

		s.fail(ctx, "view_loans", "repository_error")
		s.finish(ctx, "view_loans", "error", start)
		return nil, err
	}
	if customer == nil {
		s.finish(ctx, "view_loans", "not_found", start)
		return nil, common.ErrCustomerNotFound
	}

	loans, err := s.loanRepository.FindAllByCustomerID(ctx, customerID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch customer loans")
		span.RecordError(err)

		s.fail(ctx, "view_loans", "repository_error")
		s.finish(ctx, "view_loans", "error", start)
		return nil, err
	}

	now := s.clock.Now()
	summaries := make([]domain.LoanSummary, 0, len(loans))
	for _, loan := range loans {
		summaries = append(summaries, domain.LoanSummary{
			LoanID:             loan.ID,
			LoanAmount:         loan.LoanAmount,
			InterestRate:       loan.InterestRate,
			MonthlyInstallment: loan.MonthlyRepayment,
			RepaymentsLeft:     repaymentsLeft(loan, now),
		})
	}

	s.finish(ctx, "view_loans", "success", start)
	span.SetStatus(codes.Ok, "Customer loans retrieved")
	span.SetAttributes(attribute.Int("loans.count", len(summaries)))

	return summaries, nil
}

func repaymentsLeft(loan domain.Loan, now time.Time) int {
	monthsElapsed := (now.Year()-loan.StartDate.Year())*12 + int(now.Month()) - int(loan.StartDate.Month())
	left := loan.TenureMonths - monthsElapsed
	if left < 0 {
		return 0
	}
	return left
}
