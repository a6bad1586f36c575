package loanrepo

import (
	"context"
	"errors"
	"time"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/model"
	"github.com/dimasprakoso/loansystem/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type loanRepository struct {
	db            *gorm.DB
	meter         metric.Meter
	tracer        trace.Tracer
	log           *zap.Logger
	queryDuration metric.Float64Histogram
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	rowsInserted  metric.Int64Counter
}

func NewLoanRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.LoanRepository {
	queryDuration, _ := meter.Float64Histogram(
		"repository.query.duration",
		metric.WithDescription("Duration of repository queries"),
		metric.WithUnit("ms"),
	)

	queryCount, _ := meter.Int64Counter(
		"repository.query.count",
		metric.WithDescription("Number of repository queries"),
		metric.WithUnit("{query}"),
	)

	errorCount, _ := meter.Int64Counter(
		"repository.error.count",
		metric.WithDescription("Number of repository errors"),
		metric.WithUnit("{error}"),
	)

	rowsInserted, _ := meter.Int64Counter(
		"repository.rows.inserted",
		metric.WithDescription("Number of rows inserted"),
		metric.WithUnit("{row}"),
	)

	return &loanRepository{
		db:            db,
		meter:         meter,
		tracer:        tracer,
		log:           log,
		queryDuration: queryDuration,
		queryCount:    queryCount,
		errorCount:    errorCount,
		rowsInserted:  rowsInserted,
	}
}

func (l *loanRepository) record(ctx context.Context, operation, status string, start time.Time) {
	duration := float64(time.Since(start).Milliseconds())
	l.queryDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "loans"),
			attribute.String("status", status),
		),
	)
}

func (l *loanRepository) fail(ctx context.Context, span trace.Span, operation, msg string, start time.Time, err error, fields ...zap.Field) {
	span.SetStatus(codes.Error, msg)
	span.RecordError(err)

	l.log.Error(msg, append(fields,
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)...)

	l.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "loans"),
		),
	)

	l.record(ctx, operation, "error", start)
}

// Create implements repository.LoanRepository.
func (l *loanRepository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "repository.CreateLoan")
	defer span.End()

	start := time.Now()

	l.log.Debug("Creating loan",
		zap.Uint64("loan_id", loan.ID),
		zap.Uint64("customer_id", loan.CustomerID),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	l.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "insert"),
			attribute.String("table", "loans"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", "insert"),
		attribute.String("db.table", "loans"),
		attribute.Int64("loan.id", int64(loan.ID)),
		attribute.Int64("customer.id", int64(loan.CustomerID)),
	)

	row := model.LoanFromEntity(loan)
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		l.fail(ctx, span, "insert", "Error creating loan", start, err,
			zap.Uint64("loan_id", loan.ID),
		)
		return nil, err
	}

	l.rowsInserted.Add(ctx, 1,
		metric.WithAttributes(attribute.String("table", "loans")),
	)
	l.record(ctx, "insert", "success", start)
	span.SetStatus(codes.Ok, "Loan created")

	return model.LoanToEntity(row), nil
}

// Upsert implements repository.LoanRepository. Imported loans are keyed by
// their externally assigned id, so conflicts update all columns in place.
func (l *loanRepository) Upsert(ctx context.Context, loan *domain.Loan) error {
	ctx, span := l.tracer.Start(ctx, "repository.UpsertLoan")
	defer span.End()

	start := time.Now()

	l.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "upsert"),
			attribute.String("table", "loans"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", "upsert"),
		attribute.String("db.table", "loans"),
		attribute.Int64("loan.id", int64(loan.ID)),
	)

	row := model.LoanFromEntity(loan)
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		l.fail(ctx, span, "upsert", "Error upserting loan", start, err,
			zap.Uint64("loan_id", loan.ID),
		)
		return err
	}

	l.record(ctx, "upsert", "success", start)
	span.SetStatus(codes.Ok, "Loan upserted")

	return nil
}

// FindByID implements repository.LoanRepository.
func (l *loanRepository) FindByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "repository.FindLoanByID")
	defer span.End()

	start := time.Now()

	l.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select"),
			attribute.String("table", "loans"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", "select"),
		attribute.String("db.table", "loans"),
		attribute.Int64("loan.id", int64(id)),
	)

	var loan model.Loan
	err := l.db.WithContext(ctx).First(&loan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Ok, "Loan not found")
			l.record(ctx, "select", "not_found", start)
			return nil, nil
		}

		l.fail(ctx, span, "select", "Error finding loan by ID", start, err,
			zap.Uint64("loan_id", id),
		)
		return nil, err
	}

	l.record(ctx, "select", "success", start)
	span.SetStatus(codes.Ok, "Loan found")

	return model.LoanToEntity(loan), nil
}

// FindAllByCustomerID implements repository.LoanRepository.
func (l *loanRepository) FindAllByCustomerID(ctx context.Context, customerID uint64) ([]domain.Loan, error) {
	ctx, span := l.tracer.Start(ctx, "repository.FindLoansByCustomerID")
	defer span.End()

	start := time.Now()

	l.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select"),
			attribute.String("table", "loans"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", "select"),
		attribute.String("db.table", "loans"),
		attribute.Int64("customer.id", int64(customerID)),
	)

	var loans []model.Loan
	err := l.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&loans).Error
	if err != nil {
		l.fail(ctx, span, "select", "Error finding loans by customer ID", start, err,
			zap.Uint64("customer_id", customerID),
		)
		return nil, err
	}

	l.record(ctx, "select", "success", start)
	span.SetStatus(codes.Ok, "Loans found")
	span.SetAttributes(attribute.Int("loans.count", len(loans)))

	return model.LoansToEntity(loans), nil
}

// NextID implements repository.LoanRepository.
func (l *loanRepository) NextID(ctx context.Context) (uint64, error) {
	ctx, span := l.tracer.Start(ctx, "repository.NextLoanID")
	defer span.End()

	start := time.Now()

	l.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select_max"),
			attribute.String("table", "loans"),
		),
	)

	var maxID uint64
	err := l.db.WithContext(ctx).
		Model(&model.Loan{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	if err != nil {
		l.fail(ctx, span, "select_max", "Error selecting max loan id", start, err)
		return 0, err
	}

	l.record(ctx, "select_max", "success", start)
	span.SetStatus(codes.Ok, "Next loan id computed")

	return maxID + 1, nil
}

// SumMonthlyRepaymentByCustomerID implements repository.LoanRepository.
func (l *loanRepository) SumMonthlyRepaymentByCustomerID(ctx context.Context, customerID uint64) (decimal.Decimal, error) {
	ctx, span := l.tracer.Start(ctx, "repository.SumMonthlyRepayment")
	defer span.End()

	start := time.Now()

	l.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "sum"),
			attribute.String("table", "loans"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", "sum"),
		attribute.String("db.table", "loans"),
		attribute.Int64("customer.id", int64(customerID)),
	)

	var total decimal.NullDecimal
	err := l.db.WithContext(ctx).
		Model(&model.Loan{}).
		Where("customer_id = ?", customerID).
		Select("SUM(monthly_repayment)").
		Scan(&total).Error
	if err != nil {
		l.fail(ctx, span, "sum", "Error summing monthly repayments", start, err,
			zap.Uint64("customer_id", customerID),
		)
		return decimal.Zero, err
	}

	l.record(ctx, "sum", "success", start)
	span.SetStatus(codes.Ok, "Monthly repayments summed")

	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
