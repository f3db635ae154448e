package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/openrental/fleetd/internal/domain"
)

const tracerName = "github.com/openrental/fleetd/internal/adapter/otel"

// TracingRepository wraps a domain.VehicleRepository with OpenTelemetry tracing.
// Each method creates a span with semantic attributes and records errors.
type TracingRepository struct {
	next   domain.VehicleRepository
	tracer trace.Tracer
}

// Compile-time check: TracingRepository implements domain.VehicleRepository.
var _ domain.VehicleRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a tracing decorator around the given repository.
func NewTracingRepository(next domain.VehicleRepository) *TracingRepository {
	return &TracingRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRepository) Create(ctx context.Context, v domain.Vehicle) error {
	ctx, span := r.tracer.Start(ctx, "VehicleRepository.Create",
		trace.WithAttributes(
			attribute.String("vehicle.id", v.ID),
			attribute.String("vehicle.plate", v.LicensePlate),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, v)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingRepository) GetByID(ctx context.Context, id string) (domain.Vehicle, error) {
	ctx, span := r.tracer.Start(ctx, "VehicleRepository.GetByID",
		trace.WithAttributes(attribute.String("vehicle.id", id)),
	)
	defer span.End()

	v, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}

func (r *TracingRepository) GetByPlate(ctx context.Context, plate string) (domain.Vehicle, error) {
	ctx, span := r.tracer.Start(ctx, "VehicleRepository.GetByPlate",
		trace.WithAttributes(attribute.String("vehicle.plate", plate)),
	)
	defer span.End()

	v, err := r.next.GetByPlate(ctx, plate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}

func (r *TracingRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Vehicle, error) {
	ctx, span := r.tracer.Start(ctx, "VehicleRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	vehicles, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(vehicles)))
	}
	return vehicles, err
}

func (r *TracingRepository) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	ctx, span := r.tracer.Start(ctx, "VehicleRepository.Update",
		trace.WithAttributes(
			attribute.String("vehicle.id", v.ID),
			attribute.String("vehicle.status", string(v.Status)),
		),
	)
	defer span.End()

	updated, err := r.next.Update(ctx, v)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return updated, err
}
