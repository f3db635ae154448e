package http

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openrental/fleetd/internal/domain"
)

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return huma.Error404NotFound("vehicle not found")
	case errors.Is(err, domain.ErrCustomerNotFound):
		return huma.Error404NotFound("customer not found")
	case errors.Is(err, domain.ErrReservationNotFound):
		return huma.Error404NotFound("reservation not found")
	case errors.Is(err, domain.ErrPricingPlanNotFound):
		return huma.Error404NotFound("pricing plan not found")
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		return huma.Error409Conflict(conflictErr.Error())
	}
	var overlapErr *domain.OverlapError
	if errors.As(err, &overlapErr) {
		return huma.Error409Conflict(overlapErr.Error())
	}

	var stateErr *domain.InvalidStateError
	if errors.As(err, &stateErr) {
		return huma.Error422UnprocessableEntity(stateErr.Error())
	}
	var transErr *domain.DisallowedTransitionError
	if errors.As(err, &transErr) {
		return huma.Error422UnprocessableEntity(transErr.Error())
	}
	var fieldErr *domain.MissingFieldError
	if errors.As(err, &fieldErr) {
		return huma.Error422UnprocessableEntity(fieldErr.Error())
	}
	var docErr *domain.InvalidDocumentError
	if errors.As(err, &docErr) {
		return huma.Error422UnprocessableEntity(docErr.Error())
	}

	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		return huma.Error502BadGateway(upErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
