package customersrv

import (
	"context"
	"math"
	"time"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/repository"
	"github.com/dimasprakoso/loansystem/internal/service"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	limitMultiplier = decimal.NewFromInt(36)
	limitRounding   = decimal.NewFromInt(100000)
)

type customerService struct {
	customerRepository repository.CustomerRepository

	meter               metric.Meter
	tracer              trace.Tracer
	log                 *zap.Logger
	operationDuration   metric.Float64Histogram
	operationCount      metric.Int64Counter
	errorCount          metric.Int64Counter
	customersRegistered metric.Int64Counter
}

func NewCustomerService(
	customerRepository repository.CustomerRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.CustomerServices {
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

	customersRegistered, _ := meter.Int64Counter(
		"service.customers.registered",
		metric.WithDescription("Number of customers registered"),
		metric.WithUnit("{customer}"),
	)

	return &customerService{
		customerRepository: customerRepository,

		meter:               meter,
		tracer:              tracer,
		log:                 log,
		operationDuration:   operationDuration,
		operationCount:      operationCount,
		errorCount:          errorCount,
		customersRegistered: customersRegistered,
	}
}

func (s *customerService) finish(ctx context.Context, operation, status string, start time.Time) {
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "customer"),
			attribute.String("status", status),
		),
	)
}

func (s *customerService) fail(ctx context.Context, operation, errorType string) {
	s.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "customer"),
			attribute.String("error_type", errorType),
		),
	)
}

// ApprovedLimit derives a customer's sanctioned exposure from salary:
// 36 monthly salaries, rounded down to the nearest lakh. Computed once at
// registration and never recomputed.
func ApprovedLimit(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(limitMultiplier).Div(limitRounding).Floor().Mul(limitRounding)
}

// Register implements service.CustomerServices.
func (s *customerService) Register(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "service.RegisterCustomer")
	defer span.End()

	start := time.Now()

	s.log.Debug("Registering new customer",
		zap.String("first_name", customer.FirstName),
		zap.String("last_name", customer.LastName),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "register_customer"),
			attribute.String("service", "customer"),
		),
	)

	nextID, err := s.customerRepository.NextID(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to allocate customer id")
		span.RecordError(err)

		s.log.Error("Failed to allocate customer id",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		s.fail(ctx, "register_customer", "id_allocation_error")
		s.finish(ctx, "register_customer", "error", start)
		return nil, err
	}

	customer.ID = nextID
	customer.ApprovedLimit = ApprovedLimit(customer.MonthlySalary)
	customer.CurrentDebt = decimal.Zero

	created, err := s.customerRepository.Create(ctx, customer)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to create customer")
		span.RecordError(err)

		s.log.Error("Failed to create customer",
			zap.Uint64("customer_id", customer.ID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		s.fail(ctx, "register_customer", "create_failed")
		s.finish(ctx, "register_customer", "error", start)
		return nil, err
	}

	s.customersRegistered.Add(ctx, 1,
		metric.WithAttributes(attribute.String("service", "customer")),
	)
	s.finish(ctx, "register_customer", "success", start)

	s.log.Info("Customer registered successfully",
		zap.Uint64("customer_id", created.ID),
		zap.String("approved_limit", created.ApprovedLimit.String()),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	span.SetStatus(codes.Ok, "Customer registered successfully")
	span.SetAttributes(attribute.Int64("customer.id", int64(created.ID)))

	return created, nil
}

// ListCustomers implements service.CustomerServices.
func (s *customerService) ListCustomers(ctx context.Context, params domain.Params) (*domain.Paginated, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListCustomers")
	defer span.End()

	start := time.Now()

	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "list_customers"),
			attribute.String("service", "customer"),
		),
	)

	span.SetAttributes(
		attribute.Int("pagination.page", params.Page),
		attribute.Int("pagination.limit", params.Limit),
	)

	customers, total, err := s.customerRepository.FindPaginated(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch customers")
		span.RecordError(err)

		s.log.Error("Failed to fetch customers",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		s.fail(ctx, "list_customers", "repository_error")
		s.finish(ctx, "list_customers", "error", start)
		return nil, err
	}

	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	s.finish(ctx, "list_customers", "success", start)
	span.SetStatus(codes.Ok, "Customers listed")

	return &domain.Paginated{
		Data:       customers,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}, nil
}
