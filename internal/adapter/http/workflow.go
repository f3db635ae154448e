package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openrental/fleetd/internal/app"
	"github.com/openrental/fleetd/internal/domain"
)

// --- Workflow ---

type WorkflowEdgeBody struct {
	FromState string `json:"from_state" minLength:"1" doc:"Source status"`
	Action    string `json:"action" minLength:"1" doc:"Operator-facing action name"`
	ToState   string `json:"to_state" minLength:"1" doc:"Target status"`
	Role      string `json:"role,omitempty" doc:"Informational role metadata"`
}

type GetWorkflowOutput struct {
	Body struct {
		Edges []WorkflowEdgeBody `json:"edges" doc:"Configured edges; empty means the built-in table applies"`
	}
}

type PutWorkflowInput struct {
	Body struct {
		Edges []WorkflowEdgeBody `json:"edges" doc:"Full replacement edge set; empty removes the override"`
	}
}

type PutWorkflowOutput struct {
	Body struct {
		Edges []WorkflowEdgeBody `json:"edges"`
	}
}

func toWorkflowEdges(edges []domain.WorkflowEdge) []WorkflowEdgeBody {
	out := make([]WorkflowEdgeBody, len(edges))
	for i, e := range edges {
		out[i] = WorkflowEdgeBody{
			FromState: string(e.FromState),
			Action:    e.Action,
			ToState:   string(e.ToState),
			Role:      e.Role,
		}
	}
	return out
}

func registerWorkflow(api huma.API, svc *app.FleetService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-vehicle-workflow",
		Method:      http.MethodGet,
		Path:        "/api/v1/workflow/vehicle",
		Summary:     "Configured vehicle transition workflow",
		Tags:        []string{"Workflow"},
	}, func(ctx context.Context, _ *struct{}) (*GetWorkflowOutput, error) {
		edges, err := svc.VehicleWorkflow(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &GetWorkflowOutput{}
		out.Body.Edges = toWorkflowEdges(edges)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-vehicle-workflow",
		Method:      http.MethodPut,
		Path:        "/api/v1/workflow/vehicle",
		Summary:     "Replace the vehicle transition workflow",
		Tags:        []string{"Workflow"},
	}, func(ctx context.Context, input *PutWorkflowInput) (*PutWorkflowOutput, error) {
		inputs := make([]app.WorkflowEdgeInput, len(input.Body.Edges))
		for i, e := range input.Body.Edges {
			inputs[i] = app.WorkflowEdgeInput{
				FromState: e.FromState,
				Action:    e.Action,
				ToState:   e.ToState,
				Role:      e.Role,
			}
		}

		edges, err := svc.ConfigureVehicleWorkflow(ctx, inputs)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &PutWorkflowOutput{}
		out.Body.Edges = toWorkflowEdges(edges)
		return out, nil
	})
}
