package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openrental/fleetd/internal/app"
)

// --- Customers ---

type CreateCustomerInput struct {
	Body struct {
		FullName       string `json:"full_name,omitempty" doc:"Full name"`
		FirstName      string `json:"first_name,omitempty" doc:"First name"`
		LastName       string `json:"last_name,omitempty" doc:"Last name"`
		PassportNumber string `json:"passport_number,omitempty" doc:"Passport or ID number"`
		Nationality    string `json:"nationality,omitempty" doc:"Nationality"`
		DateOfBirth    string `json:"date_of_birth,omitempty" doc:"Date of birth (YYYY-MM-DD)"`
	}
}

type CreateCustomerOutput struct {
	Body CustomerResponse
}

type GetCustomerInput struct {
	ID string `path:"id" doc:"Customer ID"`
}

type GetCustomerOutput struct {
	Body CustomerResponse
}

// --- Document Scan ---

type ScanCustomerInput struct {
	ID   string `path:"id" doc:"Customer ID"`
	Body struct {
		FileURL string `json:"file_url" minLength:"1" doc:"URL of the scanned document"`
	}
}

type ScanCustomerOutput struct {
	Body struct {
		Customer      CustomerResponse `json:"customer" doc:"Customer after the merge"`
		AppliedFields []string         `json:"applied_fields,omitempty" doc:"Fields the scan filled"`
	}
}

func registerCustomers(api huma.API, svc *app.FleetService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-customer",
		Method:      http.MethodPost,
		Path:        "/api/v1/customers",
		Summary:     "Create a customer",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *CreateCustomerInput) (*CreateCustomerOutput, error) {
		c, err := svc.CreateCustomer(ctx, app.CustomerInput{
			FullName:       input.Body.FullName,
			FirstName:      input.Body.FirstName,
			LastName:       input.Body.LastName,
			PassportNumber: input.Body.PassportNumber,
			Nationality:    input.Body.Nationality,
			DateOfBirth:    input.Body.DateOfBirth,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateCustomerOutput{Body: toCustomerResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-customer",
		Method:      http.MethodGet,
		Path:        "/api/v1/customers/{id}",
		Summary:     "Get a customer by ID",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *GetCustomerInput) (*GetCustomerOutput, error) {
		c, err := svc.GetCustomer(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetCustomerOutput{Body: toCustomerResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "scan-customer-document",
		Method:      http.MethodPost,
		Path:        "/api/v1/customers/{id}/scan",
		Summary:     "Fill customer fields from a scanned document",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *ScanCustomerInput) (*ScanCustomerOutput, error) {
		c, applied, err := svc.ScanCustomerDocument(ctx, input.ID, input.Body.FileURL)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &ScanCustomerOutput{}
		out.Body.Customer = toCustomerResponse(c)
		out.Body.AppliedFields = applied
		return out, nil
	})
}
