package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrdesk/hrdesk/internal/domain"
)

const employeeColumns = `employee_id, full_name, gender, age, birth_date, citizen_id, phone_number,
	 start_date, resign_date, years_of_service, bank_account, current_salary,
	 department, position, google_drive, profile_image, created_at, updated_at`

type EmployeeRepo struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepo(pool *pgxpool.Pool) *EmployeeRepo {
	return &EmployeeRepo{pool: pool}
}

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO employees (`+employeeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		e.EmployeeID, e.FullName, nilIfEmpty(e.Gender), e.Age, e.BirthDate,
		nilIfEmpty(e.CitizenID), nilIfEmpty(e.PhoneNumber),
		e.StartDate, e.ResignDate, e.YearsOfService,
		nilIfEmpty(e.BankAccount), e.CurrentSalary,
		nilIfEmpty(e.Department), nilIfEmpty(e.Position),
		nilIfEmpty(e.GoogleDrive), nilIfEmpty(e.ProfileImage),
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("employeeRepo.Create: %w", err)
	}

	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`,
		employeeID,
	)

	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("employeeRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("employeeRepo.GetByID: %w", err)
	}

	return e, nil
}

// Update overwrites the full record. There is no version column: two
// concurrent editors race and the last write wins.
func (r *EmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE employees SET
		   full_name = $1, gender = $2, age = $3, birth_date = $4, citizen_id = $5,
		   phone_number = $6, start_date = $7, resign_date = $8, years_of_service = $9,
		   bank_account = $10, current_salary = $11, department = $12, position = $13,
		   google_drive = $14, profile_image = $15, updated_at = now()
		 WHERE employee_id = $16`,
		e.FullName, nilIfEmpty(e.Gender), e.Age, e.BirthDate, nilIfEmpty(e.CitizenID),
		nilIfEmpty(e.PhoneNumber), e.StartDate, e.ResignDate, e.YearsOfService,
		nilIfEmpty(e.BankAccount), e.CurrentSalary, nilIfEmpty(e.Department), nilIfEmpty(e.Position),
		nilIfEmpty(e.GoogleDrive), nilIfEmpty(e.ProfileImage),
		e.EmployeeID,
	)
	if err != nil {
		return fmt.Errorf("employeeRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employeeRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *EmployeeRepo) List(ctx context.Context) ([]*domain.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY employee_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("employeeRepo.List: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows, "employeeRepo.List")
}

func (r *EmployeeRepo) SearchByName(ctx context.Context, name string) ([]*domain.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees
		 WHERE full_name ILIKE '%' || $1 || '%'
		 ORDER BY employee_id`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("employeeRepo.SearchByName: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows, "employeeRepo.SearchByName")
}

func collectEmployees(rows pgx.Rows, caller string) ([]*domain.Employee, error) {
	var employees []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	var gender, citizenID, phone, bankAccount, department, position, googleDrive, profileImage *string

	err := row.Scan(
		&e.EmployeeID, &e.FullName, &gender, &e.Age, &e.BirthDate, &citizenID, &phone,
		&e.StartDate, &e.ResignDate, &e.YearsOfService, &bankAccount, &e.CurrentSalary,
		&department, &position, &googleDrive, &profileImage, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Gender = derefStr(gender)
	e.CitizenID = derefStr(citizenID)
	e.PhoneNumber = derefStr(phone)
	e.BankAccount = derefStr(bankAccount)
	e.Department = derefStr(department)
	e.Position = derefStr(position)
	e.GoogleDrive = derefStr(googleDrive)
	e.ProfileImage = derefStr(profileImage)

	return &e, nil
}
