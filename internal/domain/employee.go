package domain

import (
	"context"
	"time"
)

// Employee is an HR personnel record. EmployeeID is assigned at creation and
// never changes afterwards. ResignDate is nil while the person is still
// employed. YearsOfService is derived from StartDate and ResignDate (or the
// current date) and is recomputed on every write.
type Employee struct {
	EmployeeID     string
	FullName       string
	Gender         string
	Age            int
	BirthDate      *time.Time
	CitizenID      string
	PhoneNumber    string
	StartDate      *time.Time
	ResignDate     *time.Time
	YearsOfService int
	BankAccount    string
	CurrentSalary  float64
	Department     string
	Position       string
	GoogleDrive    string
	ProfileImage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, employeeID string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	List(ctx context.Context) ([]*Employee, error)
	SearchByName(ctx context.Context, name string) ([]*Employee, error)
}
