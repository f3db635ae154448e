package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openrental/fleetd/internal/app"
	"github.com/openrental/fleetd/internal/domain"
)

// --- Preflight ---

type PreflightInput struct {
	ID string `path:"id" doc:"Vehicle ID"`
	To string `query:"to" doc:"Target status"`
}

type FieldSpecResponse struct {
	Name     string   `json:"name" doc:"Payload key"`
	Label    string   `json:"label" doc:"Display label"`
	Type     string   `json:"type" doc:"Field type"`
	Required bool     `json:"required" doc:"Whether the apply call must carry it"`
	Options  []string `json:"options,omitempty" doc:"Choices for select fields"`
}

type PreflightOutput struct {
	Body struct {
		Allowed       bool                `json:"allowed" doc:"Whether the transition is permitted"`
		Reason        string              `json:"reason,omitempty" doc:"Why the transition is not permitted"`
		RequiresInput bool                `json:"requires_input" doc:"Whether required fields must be collected first"`
		Fields        []FieldSpecResponse `json:"fields,omitempty" doc:"Fields the transition consumes"`
	}
}

// --- Apply ---

type ApplyTransitionInput struct {
	ID   string `path:"id" doc:"Vehicle ID"`
	Body struct {
		From    string         `json:"from" doc:"Expected current status"`
		To      string         `json:"to" doc:"Target status"`
		Payload map[string]any `json:"payload,omitempty" doc:"Transition field values"`
	}
}

type ApplyTransitionOutput struct {
	Body struct {
		Vehicle     VehicleResponse      `json:"vehicle" doc:"Vehicle after the transition"`
		CreatedDocs []CreatedDocResponse `json:"created_docs,omitempty" doc:"Documents created alongside"`
		Warnings    []string             `json:"warnings,omitempty" doc:"Non-fatal post-commit warnings"`
	}
}

func registerTransitions(api huma.API, svc *app.FleetService) {
	huma.Register(api, huma.Operation{
		OperationID: "preflight-transition",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles/{id}/transitions/preflight",
		Summary:     "Check a transition before applying it",
		Tags:        []string{"Transitions"},
	}, func(ctx context.Context, input *PreflightInput) (*PreflightOutput, error) {
		pf, err := svc.PreflightTransition(ctx, input.ID, domain.Status(input.To))
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &PreflightOutput{}
		out.Body.Allowed = pf.Allowed
		out.Body.Reason = pf.Reason
		out.Body.RequiresInput = pf.RequiresInput
		if len(pf.Fields) > 0 {
			out.Body.Fields = make([]FieldSpecResponse, len(pf.Fields))
			for i, f := range pf.Fields {
				out.Body.Fields[i] = FieldSpecResponse{
					Name:     f.Name,
					Label:    f.Label,
					Type:     string(f.Type),
					Required: f.Required,
					Options:  f.Options,
				}
			}
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "apply-transition",
		Method:      http.MethodPost,
		Path:        "/api/v1/vehicles/{id}/transitions",
		Summary:     "Move a vehicle to a new status",
		Tags:        []string{"Transitions"},
	}, func(ctx context.Context, input *ApplyTransitionInput) (*ApplyTransitionOutput, error) {
		result, err := svc.ApplyTransition(ctx, input.ID,
			domain.Status(input.Body.From), domain.Status(input.Body.To),
			domain.Payload(input.Body.Payload))
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &ApplyTransitionOutput{}
		out.Body.Vehicle = toVehicleResponse(result.Vehicle)
		if len(result.CreatedDocs) > 0 {
			out.Body.CreatedDocs = toCreatedDocs(result.CreatedDocs)
		}
		out.Body.Warnings = result.Warnings
		return out, nil
	})
}
