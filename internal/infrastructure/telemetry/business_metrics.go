// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the Stocker backend.
// It tracks Ba/Bs filing activity, purchasing approvals, sales returns,
// security audit volume, and stock levels.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	formFiledTotal       *Counter
	requestApprovedTotal *Counter
	returnCompletedTotal *Counter
	auditEventTotal      *Counter

	// Gauge metrics (point-in-time values)
	variantStockQuantity *Gauge
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	bm.formFiledTotal, err = NewCounter(
		cfg.Meter,
		"stocker_babs_form_filed_total",
		"Total number of Ba/Bs forms filed",
		"{forms}",
	)
	if err != nil {
		return nil, err
	}

	bm.requestApprovedTotal, err = NewCounter(
		cfg.Meter,
		"stocker_purchase_request_approved_total",
		"Total number of purchase requests approved",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	bm.returnCompletedTotal, err = NewCounter(
		cfg.Meter,
		"stocker_sales_return_completed_total",
		"Total number of sales returns completed with refund",
		"{returns}",
	)
	if err != nil {
		return nil, err
	}

	bm.auditEventTotal, err = NewCounter(
		cfg.Meter,
		"stocker_audit_event_total",
		"Total number of security audit events recorded",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	bm.variantStockQuantity, err = NewGauge(
		cfg.Meter,
		"stocker_variant_stock_quantity",
		"Current on-hand stock quantity per product",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordFormFiled records a Ba/Bs form filing.
// This should be called from the application layer when a form is filed.
func (bm *BusinessMetrics) RecordFormFiled(ctx context.Context, tenantID uuid.UUID, formType string) {
	bm.formFiledTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrFormType.String(formType),
	)
}

// RecordRequestApproved records a purchase request approval.
func (bm *BusinessMetrics) RecordRequestApproved(ctx context.Context, tenantID uuid.UUID, department string) {
	bm.requestApprovedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDepartment.String(department),
	)
}

// RecordReturnCompleted records a sales return completion.
func (bm *BusinessMetrics) RecordReturnCompleted(ctx context.Context, tenantID uuid.UUID) {
	bm.returnCompletedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordAuditEvent records a security audit event.
// Labeled by tenant code rather than tenant ID because audit writes
// carry the code from the token claims without a directory lookup.
func (bm *BusinessMetrics) RecordAuditEvent(ctx context.Context, tenantCode, riskLevel string, blocked bool) {
	bm.auditEventTotal.Inc(ctx,
		AttrTenantCode.String(tenantCode),
		AttrRiskLevel.String(riskLevel),
		AttrBlocked.String(strconv.FormatBool(blocked)),
	)
}

// RecordStockLevel records the current stock quantity for a product.
// This should be called after stock movements are persisted.
func (bm *BusinessMetrics) RecordStockLevel(ctx context.Context, tenantID, productID uuid.UUID, quantity int64) {
	bm.variantStockQuantity.Record(ctx, quantity,
		AttrTenantID.String(tenantID.String()),
		AttrProductID.String(productID.String()),
	)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
