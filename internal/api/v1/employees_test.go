package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/hrdesk/hrdesk/internal/api/v1"
	"github.com/hrdesk/hrdesk/internal/changelog"
	"github.com/hrdesk/hrdesk/internal/domain"
	"github.com/hrdesk/hrdesk/internal/employee"
)

func fixtureEmployee() *domain.Employee {
	birth := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	start := time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC)
	return &domain.Employee{
		EmployeeID:     "EMP000001",
		FullName:       "Alice Smith",
		Gender:         "F",
		Age:            30,
		BirthDate:      &birth,
		CitizenID:      "1234567890123",
		PhoneNumber:    "555-0100",
		StartDate:      &start,
		YearsOfService: 6,
		BankAccount:    "111-222-333",
		CurrentSalary:  1000,
		Department:     "Sales",
		Position:       "Manager",
		ProfileImage:   "alice.png",
	}
}

// multipartBody builds a form with the given fields and returns the encoded
// body plus the Content-Type header humatest needs.
func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return buf, "Content-Type: " + w.FormDataContentType()
}

// ---------------------------------------------------------------------------
// GET /employees and /employees/search
// ---------------------------------------------------------------------------

func TestListEmployees(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			employees: &mockEmployeeRepo{
				listFunc: func(_ context.Context) ([]*domain.Employee, error) {
					return []*domain.Employee{fixtureEmployee()}, nil
				},
			},
		}

		v1.RegisterEmployeeRoutes(api, store, &mockEmployeeService{}, staticImageResolver{})

		resp := api.Get("/employees")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []v1.EmployeeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "EMP000001", body[0].EmployeeID)
		assert.Equal(t, "1995-04-12", body[0].BirthDate)
		assert.Equal(t, "2019-01-02", body[0].StartDate)
		assert.Empty(t, body[0].ResignDate)
		assert.Equal(t, "/uploads/alice.png", body[0].ProfileImageURL)
	})

	t.Run("store_error", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			employees: &mockEmployeeRepo{
				listFunc: func(_ context.Context) ([]*domain.Employee, error) {
					return nil, errors.New("pg: connection refused")
				},
			},
		}

		v1.RegisterEmployeeRoutes(api, store, &mockEmployeeService{}, staticImageResolver{})

		resp := api.Get("/employees")

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

func TestSearchEmployees(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	store := &mockDataStore{
		employees: &mockEmployeeRepo{
			searchByNameFunc: func(_ context.Context, name string) ([]*domain.Employee, error) {
				assert.Equal(t, "ali", name)
				return []*domain.Employee{fixtureEmployee()}, nil
			},
		},
	}

	v1.RegisterEmployeeRoutes(api, store, &mockEmployeeService{}, staticImageResolver{})

	resp := api.Get("/employees/search?name=ali")

	require.Equal(t, http.StatusOK, resp.Code)

	var body []v1.EmployeeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "Alice Smith", body[0].FullName)
}

// ---------------------------------------------------------------------------
// GET /employees/{id}
// ---------------------------------------------------------------------------

func TestGetEmployee(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			employees: &mockEmployeeRepo{
				getByIDFunc: func(_ context.Context, id string) (*domain.Employee, error) {
					assert.Equal(t, "EMP000001", id)
					return fixtureEmployee(), nil
				},
			},
		}

		v1.RegisterEmployeeRoutes(api, store, &mockEmployeeService{}, staticImageResolver{})

		resp := api.Get("/employees/EMP000001")

		require.Equal(t, http.StatusOK, resp.Code)

		var body v1.EmployeeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Sales", body.Department)
		assert.Equal(t, float64(1000), body.CurrentSalary)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			employees: &mockEmployeeRepo{
				getByIDFunc: func(_ context.Context, _ string) (*domain.Employee, error) {
					return nil, domain.ErrNotFound
				},
			},
		}

		v1.RegisterEmployeeRoutes(api, store, &mockEmployeeService{}, staticImageResolver{})

		resp := api.Get("/employees/EMP999999")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /employees
// ---------------------------------------------------------------------------

func TestCreateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockEmployeeService{
			createFunc: func(_ context.Context, in employee.RecordInput) (*domain.Employee, error) {
				assert.Equal(t, "Bob Jones", in.FullName)
				assert.Equal(t, "2024-03-01", in.StartDate)
				assert.Equal(t, "2500.50", in.CurrentSalary)
				return &domain.Employee{EmployeeID: "EMP000042"}, nil
			},
		}

		v1.RegisterEmployeeRoutes(api, &mockDataStore{}, svc, staticImageResolver{})

		body, contentType := multipartBody(t, map[string]string{
			"full_name":      "Bob Jones",
			"start_date":     "2024-03-01",
			"current_salary": "2500.50",
			"department":     "Engineering",
		})

		resp := api.Post("/employees", contentType, body)

		require.Equal(t, http.StatusOK, resp.Code)

		var out struct {
			Message    string `json:"message"`
			EmployeeID string `json:"employee_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "created", out.Message)
		assert.Equal(t, "EMP000042", out.EmployeeID)
	})
}

// ---------------------------------------------------------------------------
// PUT /employees/{id}
// ---------------------------------------------------------------------------

func TestUpdateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("updated_with_changes", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockEmployeeService{
			updateFunc: func(_ context.Context, actorID uuid.UUID, employeeID string, in employee.RecordInput) (employee.UpdateResult, error) {
				assert.Equal(t, fixedUserID(), actorID)
				assert.Equal(t, "EMP000001", employeeID)
				assert.Equal(t, "Marketing", in.Department)
				return employee.UpdateResult{
					EmployeeID:   "EMP000001",
					ProfileImage: "alice.png",
					Changes: changelog.ChangeSet{
						"department": {Before: "Sales", After: "Marketing"},
					},
				}, nil
			},
		}

		v1.RegisterEmployeeRoutes(api, &mockDataStore{}, svc, staticImageResolver{})

		body, contentType := multipartBody(t, map[string]string{
			"full_name":  "Alice Smith",
			"department": "Marketing",
		})

		resp := api.PutCtx(userCtx(fixedUserID()), "/employees/EMP000001", contentType, body)

		require.Equal(t, http.StatusOK, resp.Code)

		var out struct {
			Message      string `json:"message"`
			ProfileImage string `json:"profile_image"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "updated", out.Message)
		assert.Equal(t, "/uploads/alice.png", out.ProfileImage)
	})

	t.Run("no_changes", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockEmployeeService{
			updateFunc: func(_ context.Context, _ uuid.UUID, _ string, _ employee.RecordInput) (employee.UpdateResult, error) {
				return employee.UpdateResult{EmployeeID: "EMP000001", NoChange: true}, nil
			},
		}

		v1.RegisterEmployeeRoutes(api, &mockDataStore{}, svc, staticImageResolver{})

		body, contentType := multipartBody(t, map[string]string{
			"full_name": "Alice Smith",
		})

		resp := api.PutCtx(userCtx(fixedUserID()), "/employees/EMP000001", contentType, body)

		require.Equal(t, http.StatusOK, resp.Code)

		var out struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "no changes", out.Message)
	})

	t.Run("missing_user_context", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)

		v1.RegisterEmployeeRoutes(api, &mockDataStore{}, &mockEmployeeService{}, staticImageResolver{})

		body, contentType := multipartBody(t, map[string]string{
			"full_name": "Alice Smith",
		})

		resp := api.Put("/employees/EMP000001", contentType, body)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockEmployeeService{
			updateFunc: func(_ context.Context, _ uuid.UUID, _ string, _ employee.RecordInput) (employee.UpdateResult, error) {
				return employee.UpdateResult{}, domain.ErrNotFound
			},
		}

		v1.RegisterEmployeeRoutes(api, &mockDataStore{}, svc, staticImageResolver{})

		body, contentType := multipartBody(t, map[string]string{
			"full_name": "Ghost",
		})

		resp := api.PutCtx(userCtx(fixedUserID()), "/employees/EMP999999", contentType, body)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
