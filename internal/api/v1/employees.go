package v1

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hrdesk/hrdesk/internal/changelog"
	"github.com/hrdesk/hrdesk/internal/domain"
	"github.com/hrdesk/hrdesk/internal/employee"
	"github.com/hrdesk/hrdesk/internal/server/middleware"
)

// EmployeeResponse renders a record for the API. Dates use the same canonical
// YYYY-MM-DD form the change differ compares with, so what the UI shows is
// exactly what the audit trail records.
type EmployeeResponse struct {
	EmployeeID      string  `json:"employee_id"`
	FullName        string  `json:"full_name"`
	Gender          string  `json:"gender,omitempty"`
	Age             int     `json:"age"`
	BirthDate       string  `json:"birth_date,omitempty"`
	CitizenID       string  `json:"citizen_id,omitempty"`
	PhoneNumber     string  `json:"phone_number,omitempty"`
	StartDate       string  `json:"start_date,omitempty"`
	ResignDate      string  `json:"resign_date,omitempty"`
	YearsOfService  int     `json:"years_of_service"`
	BankAccount     string  `json:"bank_account,omitempty"`
	CurrentSalary   float64 `json:"current_salary"`
	Department      string  `json:"department,omitempty"`
	Position        string  `json:"position,omitempty"`
	GoogleDrive     string  `json:"google_drive,omitempty"`
	ProfileImage    string  `json:"profile_image,omitempty"`
	ProfileImageURL string  `json:"profile_image_url,omitempty"`
}

func toEmployeeResponse(e *domain.Employee, images ImageResolver) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:      e.EmployeeID,
		FullName:        e.FullName,
		Gender:          e.Gender,
		Age:             e.Age,
		BirthDate:       changelog.Normalize("birth_date", e.BirthDate),
		CitizenID:       e.CitizenID,
		PhoneNumber:     e.PhoneNumber,
		StartDate:       changelog.Normalize("start_date", e.StartDate),
		ResignDate:      changelog.Normalize("resign_date", e.ResignDate),
		YearsOfService:  e.YearsOfService,
		BankAccount:     e.BankAccount,
		CurrentSalary:   e.CurrentSalary,
		Department:      e.Department,
		Position:        e.Position,
		GoogleDrive:     e.GoogleDrive,
		ProfileImage:    e.ProfileImage,
		ProfileImageURL: images.URL(e.ProfileImage),
	}
}

type ListEmployeesOutput struct {
	Body []EmployeeResponse
}

type SearchEmployeesInput struct {
	Name string `query:"name" required:"true" doc:"Name fragment to search for"`
}

type GetEmployeeInput struct {
	ID string `path:"id" doc:"Employee ID"`
}

type GetEmployeeOutput struct {
	Body EmployeeResponse
}

type CreateEmployeeInput struct {
	RawBody multipart.Form
}

type CreateEmployeeOutput struct {
	Body struct {
		Message    string `json:"message"`
		EmployeeID string `json:"employee_id"`
	}
}

type UpdateEmployeeInput struct {
	ID      string `path:"id" doc:"Employee ID"`
	RawBody multipart.Form
}

type UpdateEmployeeOutput struct {
	Body struct {
		Message      string `json:"message"`
		ProfileImage string `json:"profile_image,omitempty"`
	}
}

func RegisterEmployeeRoutes(api huma.API, store DataStore, svc EmployeeService, images ImageResolver) {
	huma.Register(api, huma.Operation{
		OperationID: "list-employees",
		Method:      http.MethodGet,
		Path:        "/employees",
		Summary:     "List all employees",
		Tags:        []string{"Employees"},
	}, func(ctx context.Context, _ *struct{}) (*ListEmployeesOutput, error) {
		list, err := store.Employees().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list employees", err)
		}

		out := &ListEmployeesOutput{Body: make([]EmployeeResponse, 0, len(list))}
		for _, e := range list {
			out.Body = append(out.Body, toEmployeeResponse(e, images))
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "search-employees",
		Method:      http.MethodGet,
		Path:        "/employees/search",
		Summary:     "Search employees by name",
		Tags:        []string{"Employees"},
	}, func(ctx context.Context, input *SearchEmployeesInput) (*ListEmployeesOutput, error) {
		list, err := store.Employees().SearchByName(ctx, input.Name)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to search employees", err)
		}

		out := &ListEmployeesOutput{Body: make([]EmployeeResponse, 0, len(list))}
		for _, e := range list {
			out.Body = append(out.Body, toEmployeeResponse(e, images))
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-employee",
		Method:      http.MethodGet,
		Path:        "/employees/{id}",
		Summary:     "Get one employee",
		Tags:        []string{"Employees"},
	}, func(ctx context.Context, input *GetEmployeeInput) (*GetEmployeeOutput, error) {
		e, err := store.Employees().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("employee not found")
			}
			return nil, huma.Error500InternalServerError("failed to load employee", err)
		}

		return &GetEmployeeOutput{Body: toEmployeeResponse(e, images)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-employee",
		Method:      http.MethodPost,
		Path:        "/employees",
		Summary:     "Create an employee record",
		Tags:        []string{"Employees"},
	}, func(ctx context.Context, input *CreateEmployeeInput) (*CreateEmployeeOutput, error) {
		in, closeImage, err := recordInputFromForm(input.RawBody)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid profile image", err)
		}
		defer closeImage()

		created, err := svc.Create(ctx, in)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create employee", err)
		}

		out := &CreateEmployeeOutput{}
		out.Body.Message = "created"
		out.Body.EmployeeID = created.EmployeeID
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-employee",
		Method:      http.MethodPut,
		Path:        "/employees/{id}",
		Summary:     "Update an employee record with change auditing",
		Tags:        []string{"Employees"},
	}, func(ctx context.Context, input *UpdateEmployeeInput) (*UpdateEmployeeOutput, error) {
		actorID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		in, closeImage, err := recordInputFromForm(input.RawBody)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid profile image", err)
		}
		defer closeImage()

		res, err := svc.Update(ctx, actorID, input.ID, in)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("employee not found")
			}
			return nil, huma.Error500InternalServerError("failed to update employee", err)
		}

		out := &UpdateEmployeeOutput{}
		if res.NoChange {
			out.Body.Message = "no changes"
			return out, nil
		}

		out.Body.Message = "updated"
		out.Body.ProfileImage = images.URL(res.ProfileImage)
		return out, nil
	})
}

// recordInputFromForm maps submitted multipart fields onto a RecordInput.
// A field the client omits stays "", which the update pipeline treats as an
// explicit clear. The returned closer releases the opened upload, if any.
func recordInputFromForm(form multipart.Form) (employee.RecordInput, func(), error) {
	in := employee.RecordInput{
		EmployeeID:    formValue(form, "employee_id"),
		FullName:      formValue(form, "full_name"),
		Gender:        formValue(form, "gender"),
		Age:           formValue(form, "age"),
		BirthDate:     formValue(form, "birth_date"),
		CitizenID:     formValue(form, "citizen_id"),
		PhoneNumber:   formValue(form, "phone_number"),
		StartDate:     formValue(form, "start_date"),
		ResignDate:    formValue(form, "resign_date"),
		BankAccount:   formValue(form, "bank_account"),
		CurrentSalary: formValue(form, "current_salary"),
		Department:    formValue(form, "department"),
		Position:      formValue(form, "position"),
		GoogleDrive:   formValue(form, "google_drive"),
	}

	closeImage := func() {}

	if headers := form.File["profile_image"]; len(headers) > 0 && headers[0].Filename != "" {
		f, err := headers[0].Open()
		if err != nil {
			return employee.RecordInput{}, closeImage, err
		}
		closeImage = func() { _ = f.Close() }
		in.Image = &employee.ImageUpload{Filename: headers[0].Filename, Content: f}
	}

	return in, closeImage, nil
}

func formValue(form multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
