package app

import (
	"context"
	"fmt"

	"github.com/openrental/fleetd/internal/domain"
)

// vehicleWorkflowType is the document type whose workflow overrides the
// static vehicle transition table.
const vehicleWorkflowType = "Vehicle"

// WorkflowEdgeInput is one edge of a workflow definition as submitted by
// a caller.
type WorkflowEdgeInput struct {
	FromState string
	Action    string
	ToState   string
	Role      string
}

// VehicleWorkflow returns the configured workflow edges for vehicles. An
// empty result means the static transition table is in force.
func (s *FleetService) VehicleWorkflow(ctx context.Context) ([]domain.WorkflowEdge, error) {
	if s.workflows == nil {
		return nil, nil
	}
	edges, err := s.workflows.Edges(ctx, vehicleWorkflowType)
	if err != nil {
		return nil, fmt.Errorf("loading vehicle workflow: %w", err)
	}
	return edges, nil
}

// ConfigureVehicleWorkflow replaces the vehicle workflow definition.
// Every edge must connect two recognized statuses and carry an action
// name. An empty edge set removes the override.
func (s *FleetService) ConfigureVehicleWorkflow(ctx context.Context, inputs []WorkflowEdgeInput) ([]domain.WorkflowEdge, error) {
	if s.workflows == nil {
		return nil, &domain.UpstreamError{Service: "workflow-store", Err: errNotConfigured}
	}

	edges := make([]domain.WorkflowEdge, 0, len(inputs))
	for _, in := range inputs {
		from := domain.Status(in.FromState)
		to := domain.Status(in.ToState)
		if !domain.IsValidStatus(from) {
			return nil, &domain.InvalidStateError{State: from}
		}
		if !domain.IsValidStatus(to) {
			return nil, &domain.InvalidStateError{State: to}
		}
		if in.Action == "" {
			return nil, &domain.InvalidDocumentError{Reason: "workflow edge action is required"}
		}
		edges = append(edges, domain.WorkflowEdge{
			DocumentType: vehicleWorkflowType,
			FromState:    from,
			Action:       in.Action,
			ToState:      to,
			Role:         in.Role,
		})
	}

	if err := s.workflows.ReplaceWorkflow(ctx, vehicleWorkflowType, edges); err != nil {
		return nil, fmt.Errorf("replacing vehicle workflow: %w", err)
	}

	s.logger.InfoContext(ctx, "vehicle workflow configured", "edges", len(edges))
	return edges, nil
}
