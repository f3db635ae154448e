package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openrental/fleetd/internal/app"
	"github.com/openrental/fleetd/internal/domain"
)

// Register adds all fleet API routes to the Huma API.
func Register(api huma.API, svc *app.FleetService) {
	registerVehicles(api, svc)
	registerTransitions(api, svc)
	registerRentals(api, svc)
	registerCustomers(api, svc)
	registerWorkflow(api, svc)
}

// --- Onboard Vehicle ---

type OnboardVehicleInput struct {
	Body struct {
		LicensePlate  string `json:"license_plate" minLength:"1" maxLength:"20" doc:"Registration plate"`
		ChassisNumber string `json:"chassis_number,omitempty" doc:"Chassis number"`
		VIN           string `json:"vin,omitempty" maxLength:"17" doc:"Vehicle identification number"`
		Make          string `json:"make,omitempty" doc:"Manufacturer"`
		Model         string `json:"model,omitempty" doc:"Model name"`
		ModelYear     int    `json:"model_year,omitempty" doc:"Model year"`
		Color         string `json:"color,omitempty" doc:"Color"`
		FuelType      string `json:"fuel_type,omitempty" doc:"Fuel type"`
		Transmission  string `json:"transmission,omitempty" doc:"Transmission style"`
		Location      string `json:"location,omitempty" doc:"Home location"`
		LastOdometer  int64  `json:"last_odometer,omitempty" minimum:"0" doc:"Current odometer (km)"`
	}
}

type OnboardVehicleOutput struct {
	Body VehicleResponse
}

// --- Get Vehicle ---

type GetVehicleInput struct {
	ID string `path:"id" doc:"Vehicle ID"`
}

type GetVehicleOutput struct {
	Body VehicleResponse
}

// --- List Vehicles ---

type ListVehiclesInput struct {
	Status string `query:"status" required:"false" doc:"Filter by status"`
	Plate  string `query:"plate" required:"false" doc:"Look up by exact license plate"`
	Limit  int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListVehiclesOutput struct {
	Body []VehicleResponse
}

// --- Board ---

type BoardColumnResponse struct {
	Status   string            `json:"status" doc:"Column status"`
	Style    string            `json:"style" doc:"Display style"`
	Vehicles []VehicleResponse `json:"vehicles" doc:"Vehicles in this column"`
}

type BoardOutput struct {
	Body []BoardColumnResponse
}

// --- VIN Enrichment ---

type DecodeVINInput struct {
	ID string `path:"id" doc:"Vehicle ID"`
}

type DecodeVINOutput struct {
	Body VehicleResponse
}

func registerVehicles(api huma.API, svc *app.FleetService) {
	huma.Register(api, huma.Operation{
		OperationID: "onboard-vehicle",
		Method:      http.MethodPost,
		Path:        "/api/v1/vehicles",
		Summary:     "Register a new vehicle",
		Tags:        []string{"Vehicles"},
	}, func(ctx context.Context, input *OnboardVehicleInput) (*OnboardVehicleOutput, error) {
		v, err := svc.OnboardVehicle(ctx, app.OnboardInput{
			LicensePlate:  input.Body.LicensePlate,
			ChassisNumber: input.Body.ChassisNumber,
			VIN:           input.Body.VIN,
			Make:          input.Body.Make,
			Model:         input.Body.Model,
			ModelYear:     input.Body.ModelYear,
			Color:         input.Body.Color,
			FuelType:      input.Body.FuelType,
			Transmission:  input.Body.Transmission,
			Location:      input.Body.Location,
			LastOdometer:  input.Body.LastOdometer,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &OnboardVehicleOutput{Body: toVehicleResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-vehicle",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles/{id}",
		Summary:     "Get a vehicle by ID",
		Tags:        []string{"Vehicles"},
	}, func(ctx context.Context, input *GetVehicleInput) (*GetVehicleOutput, error) {
		v, err := svc.GetVehicle(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetVehicleOutput{Body: toVehicleResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-vehicles",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles",
		Summary:     "List vehicles",
		Tags:        []string{"Vehicles"},
	}, func(ctx context.Context, input *ListVehiclesInput) (*ListVehiclesOutput, error) {
		if input.Plate != "" {
			v, err := svc.GetVehicleByPlate(ctx, input.Plate)
			if errors.Is(err, domain.ErrVehicleNotFound) {
				return &ListVehiclesOutput{Body: []VehicleResponse{}}, nil
			}
			if err != nil {
				return nil, toHumaError(err)
			}
			return &ListVehiclesOutput{Body: []VehicleResponse{toVehicleResponse(v)}}, nil
		}

		filter := domain.ListFilter{
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		vehicles, err := svc.ListVehicles(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]VehicleResponse, len(vehicles))
		for i, v := range vehicles {
			resp[i] = toVehicleResponse(v)
		}
		return &ListVehiclesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "vehicle-board",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles/board",
		Summary:     "Fleet board grouped by status",
		Tags:        []string{"Vehicles"},
	}, func(ctx context.Context, _ *struct{}) (*BoardOutput, error) {
		columns, err := svc.Board(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]BoardColumnResponse, len(columns))
		for i, col := range columns {
			vehicles := make([]VehicleResponse, len(col.Vehicles))
			for j, v := range col.Vehicles {
				vehicles[j] = toVehicleResponse(v)
			}
			resp[i] = BoardColumnResponse{
				Status:   string(col.Status),
				Style:    col.Style,
				Vehicles: vehicles,
			}
		}
		return &BoardOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "decode-vehicle-vin",
		Method:      http.MethodPost,
		Path:        "/api/v1/vehicles/{id}/vin-decode",
		Summary:     "Fill vehicle attributes from its VIN",
		Tags:        []string{"Vehicles"},
	}, func(ctx context.Context, input *DecodeVINInput) (*DecodeVINOutput, error) {
		v, err := svc.EnrichVehicleFromVIN(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &DecodeVINOutput{Body: toVehicleResponse(v)}, nil
	})
}
