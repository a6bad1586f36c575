package customerrepo

import (
	"context"
	"errors"
	"time"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/model"
	"github.com/dimasprakoso/loansystem/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type customerRepository struct {
	db            *gorm.DB
	meter         metric.Meter
	tracer        trace.Tracer
	log           *zap.Logger
	queryDuration metric.Float64Histogram
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	rowsInserted  metric.Int64Counter
}

func NewCustomerRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.CustomerRepository {
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

	return &customerRepository{
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

func (c *customerRepository) record(ctx context.Context, operation, status string, start time.Time) {
	duration := float64(time.Since(start).Milliseconds())
	c.queryDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "customers"),
			attribute.String("status", status),
		),
	)
}

// Create implements repository.CustomerRepository.
func (c *customerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	ctx, span := c.tracer.Start(ctx, "repository.CreateCustomer")
	defer span.End()

	start := time.Now()

	c.log.Debug("Creating customer",
		zap.Uint64("customer_id", customer.ID),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	c.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "insert"),
			attribute.String("table", "customers"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", "insert"),
		attribute.String("db.table", "customers"),
		attribute.Int64("customer.id", int64(customer.ID)),
	)

	row := model.CustomerFromEntity(customer)
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating customer")
		span.RecordError(err)

		c.log.Error("Error creating customer",
			zap.Uint64("customer_id", customer.ID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		c.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", "insert"),
				attribute.String("table", "customers"),
			),
		)

		c.record(ctx, "insert", "error", start)
		return nil, err
	}

	c.rowsInserted.Add(ctx, 1,
		metric.WithAttributes(attribute.String("table", "customers")),
	)
	c.record(ctx, "insert", "success", start)
	span.SetStatus(codes.Ok, "Customer created")

	return model.CustomerToEntity(row), nil
}

// FindByID implements repository.CustomerRepository.
func (c *customerRepository) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	ctx, span := c.tracer.Start(ctx, "repository.FindCustomerByID")
	defer span.End()

	start := time.Now()

	c.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select"),
			attribute.String("table", "customers"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", "select"),
		attribute.String("db.table", "customers"),
		attribute.Int64("customer.id", int64(id)),
	)

	var customer model.Customer
	err := c.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Ok, "Customer not found")
			c.record(ctx, "select", "not_found", start)
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding customer by ID")
		span.RecordError(err)

		c.log.Error("Error finding customer by ID",
			zap.Uint64("customer_id", id),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		c.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", "select"),
				attribute.String("table", "customers"),
			),
		)

		c.record(ctx, "select", "error", start)
		return nil, err
	}

	c.record(ctx, "select", "success", start)
	span.SetStatus(codes.Ok, "Customer found")

	return model.CustomerToEntity(customer), nil
}

// NextID implements repository.CustomerRepository. IDs are allocated as
// max existing + 1 to stay compatible with externally imported datasets.
func (c *customerRepository) NextID(ctx context.Context) (uint64, error) {
	ctx, span := c.tracer.Start(ctx, "repository.NextCustomerID")
	defer span.End()

	start := time.Now()

	c.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select_max"),
			attribute.String("table", "customers"),
		),
	)

	var maxID uint64
	err := c.db.WithContext(ctx).
		Model(&model.Customer{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error selecting max customer id")
		span.RecordError(err)

		c.log.Error("Error selecting max customer id",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		c.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", "select_max"),
				attribute.String("table", "customers"),
			),
		)

		c.record(ctx, "select_max", "error", start)
		return 0, err
	}

	c.record(ctx, "select_max", "success", start)
	span.SetStatus(codes.Ok, "Next customer id computed")

	return maxID + 1, nil
}

// FindPaginated implements repository.CustomerRepository.
func (c *customerRepository) FindPaginated(ctx context.Context, params domain.Params) ([]domain.Customer, int64, error) {
	ctx, span := c.tracer.Start(ctx, "repository.FindCustomersPaginated")
	defer span.End()

	start := time.Now()

	c.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select"),
			attribute.String("table", "customers"),
		),
	)

	span.SetAttributes(
		attribute.String("db.operation", "select"),
		attribute.String("db.table", "customers"),
		attribute.Int("pagination.page", params.Page),
		attribute.Int("pagination.limit", params.Limit),
	)

	var total int64
	if err := c.db.WithContext(ctx).Model(&model.Customer{}).Count(&total).Error; err != nil {
		span.SetStatus(codes.Error, "Error counting customers")
		span.RecordError(err)

		c.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", "count"),
				attribute.String("table", "customers"),
			),
		)

		c.record(ctx, "select", "error", start)
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit

	var customers []model.Customer
	err := c.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(params.Limit).
		Find(&customers).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error finding customers")
		span.RecordError(err)

		c.log.Error("Error finding customers",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)

		c.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", "select"),
				attribute.String("table", "customers"),
			),
		)

		c.record(ctx, "select", "error", start)
		return nil, 0, err
	}

	c.record(ctx, "select", "success", start)
	span.SetStatus(codes.Ok, "Customers found")
	span.SetAttributes(attribute.Int("customers.count", len(customers)))

	return model.CustomersToEntity(customers), total, nil
}
