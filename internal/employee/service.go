// Package employee implements the employee record use cases, including the
// audited update pipeline: load, diff, persist, then best-effort change
// logging.
package employee

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hrdesk/hrdesk/internal/changelog"
	"github.com/hrdesk/hrdesk/internal/domain"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ImageStore persists uploaded profile images and resolves their public URLs.
type ImageStore interface {
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
	URL(name string) string
}

// ImageUpload is an uploaded profile image to be stored.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// RecordInput carries the raw form fields of a create or update request.
// Values stay as submitted strings; parsing is lenient and malformed numerics
// or dates degrade to defaults instead of rejecting the request.
type RecordInput struct {
	EmployeeID    string // create only; generated when empty
	FullName      string
	Gender        string
	Age           string
	BirthDate     string
	CitizenID     string
	PhoneNumber   string
	StartDate     string
	ResignDate    string
	BankAccount   string
	CurrentSalary string
	Department    string
	Position      string
	GoogleDrive   string
	Image         *ImageUpload
}

// UpdateResult reports the outcome of an update. NoChange is set when no
// audited field differed after normalization; in that case nothing was
// written and no audit entry exists.
type UpdateResult struct {
	EmployeeID   string
	ProfileImage string
	NoChange     bool
	Changes      changelog.ChangeSet
}

// Service orchestrates employee reads and audited writes. Concurrent updates
// against the same employee are not coordinated: the update pipeline is
// read-modify-write with no version check, so the last writer wins.
type Service struct {
	employees domain.EmployeeRepository
	audit     domain.AuditRepository
	images    ImageStore
	clock     Clock
}

func NewService(employees domain.EmployeeRepository, audit domain.AuditRepository, images ImageStore) *Service {
	return &Service{
		employees: employees,
		audit:     audit,
		images:    images,
		clock:     realClock{},
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(c Clock) *Service {
	s.clock = c
	return s
}

func (s *Service) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	e, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employee.Get: %w", err)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Employee, error) {
	list, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee.List: %w", err)
	}
	return list, nil
}

func (s *Service) Search(ctx context.Context, name string) ([]*domain.Employee, error) {
	list, err := s.employees.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("employee.Search: %w", err)
	}
	return list, nil
}

// Create inserts a new employee record. Years of service on the create path
// use the month/day completion check: a year counts only once the anniversary
// has passed.
func (s *Service) Create(ctx context.Context, in RecordInput) (*domain.Employee, error) {
	now := s.clock.Now()

	id := strings.TrimSpace(in.EmployeeID)
	if id == "" {
		id = generateEmployeeID(now)
	}

	e := s.buildRecord(id, in)
	e.YearsOfService = completedYears(e.StartDate, now)
	e.CreatedAt = now
	e.UpdatedAt = now

	if in.Image != nil {
		name, err := s.images.Save(ctx, in.Image.Filename, in.Image.Content)
		if err != nil {
			return nil, fmt.Errorf("employee.Create: store image: %w", err)
		}
		e.ProfileImage = name
	}

	if err := s.employees.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("employee.Create: %w", err)
	}

	return e, nil
}

// Update runs the audited update pipeline for one employee:
//
//	load -> resolve image -> recompute derived fields -> diff -> persist -> log
//
// An empty diff short-circuits before any write. The audit insert runs after
// the record is persisted and is best-effort: its failure is logged but does
// not fail the update, since the record change has already committed.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, employeeID string, in RecordInput) (UpdateResult, error) {
	cur, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("employee.Update: %w", err)
	}

	next := s.buildRecord(employeeID, in)
	next.ProfileImage = cur.ProfileImage
	next.CreatedAt = cur.CreatedAt

	if in.Image != nil {
		if cur.ProfileImage != "" {
			if err := s.images.Remove(ctx, cur.ProfileImage); err != nil {
				log.Warn().Err(err).Str("employee_id", employeeID).Msg("removing replaced profile image")
			}
		}
		name, err := s.images.Save(ctx, in.Image.Filename, in.Image.Content)
		if err != nil {
			return UpdateResult{}, fmt.Errorf("employee.Update: store image: %w", err)
		}
		next.ProfileImage = name
	}

	// Derived field participates in the diff like any other.
	next.YearsOfService = plainYears(next.StartDate, next.ResignDate, s.clock.Now())

	changes := changelog.Compute(snapshot(cur), snapshot(next))
	if changes.Empty() {
		return UpdateResult{
			EmployeeID:   employeeID,
			ProfileImage: cur.ProfileImage,
			NoChange:     true,
		}, nil
	}

	next.UpdatedAt = s.clock.Now()
	if err := s.employees.Update(ctx, next); err != nil {
		return UpdateResult{}, fmt.Errorf("employee.Update: persist: %w", err)
	}

	s.recordChange(ctx, actorID, employeeID, changes)

	return UpdateResult{
		EmployeeID:   employeeID,
		ProfileImage: next.ProfileImage,
		Changes:      changes,
	}, nil
}

// recordChange appends the audit entry for a committed update. The record
// write is the primary effect; a failed audit insert is observed in the
// operational log only and never surfaces to the caller.
func (s *Service) recordChange(ctx context.Context, actorID uuid.UUID, employeeID string, changes changelog.ChangeSet) {
	description, err := changes.JSON()
	if err != nil {
		log.Error().Err(err).Str("employee_id", employeeID).Msg("serializing change set")
		return
	}

	entry := &domain.AuditEntry{
		ID:          uuid.New(),
		UserID:      actorID,
		Action:      domain.ActionEditEmployee,
		TargetTable: domain.TargetTableEmployee,
		TargetID:    employeeID,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.audit.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("employee_id", employeeID).Msg("writing employee edit log")
	}
}

// buildRecord parses form fields into an employee record. Parsing never
// rejects: missing or malformed values fall back to zero values.
func (s *Service) buildRecord(employeeID string, in RecordInput) *domain.Employee {
	return &domain.Employee{
		EmployeeID:    employeeID,
		FullName:      strings.TrimSpace(in.FullName),
		Gender:        strings.TrimSpace(in.Gender),
		Age:           parseIntDefault(in.Age),
		BirthDate:     changelog.ParseDate(in.BirthDate),
		CitizenID:     strings.TrimSpace(in.CitizenID),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		StartDate:     changelog.ParseDate(in.StartDate),
		ResignDate:    changelog.ParseDate(in.ResignDate),
		BankAccount:   strings.TrimSpace(in.BankAccount),
		CurrentSalary: parseFloatDefault(in.CurrentSalary),
		Department:    strings.TrimSpace(in.Department),
		Position:      strings.TrimSpace(in.Position),
		GoogleDrive:   strings.TrimSpace(in.GoogleDrive),
	}
}

// snapshot reduces a record to the raw values the diff engine normalizes.
func snapshot(e *domain.Employee) map[string]any {
	return map[string]any{
		"full_name":        e.FullName,
		"gender":           e.Gender,
		"age":              e.Age,
		"birth_date":       e.BirthDate,
		"citizen_id":       e.CitizenID,
		"phone_number":     e.PhoneNumber,
		"start_date":       e.StartDate,
		"resign_date":      e.ResignDate,
		"years_of_service": e.YearsOfService,
		"bank_account":     e.BankAccount,
		"current_salary":   e.CurrentSalary,
		"department":       e.Department,
		"position":         e.Position,
		"google_drive":     e.GoogleDrive,
		"profile_image":    e.ProfileImage,
	}
}

// plainYears is the update-path policy: whole-year subtraction between the
// start year and the resign year (or the current year), with no partial-year
// adjustment.
func plainYears(start, resign *time.Time, now time.Time) int {
	if start == nil {
		return 0
	}
	end := now
	if resign != nil {
		end = *resign
	}
	years := end.Year() - start.Year()
	if years < 0 {
		return 0
	}
	return years
}

// completedYears is the create-path policy: a year counts only after the
// month/day anniversary has passed.
func completedYears(start *time.Time, now time.Time) int {
	if start == nil {
		return 0
	}
	years := now.Year() - start.Year()
	if now.Month() < start.Month() ||
		(now.Month() == start.Month() && now.Day() < start.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func generateEmployeeID(now time.Time) string {
	return fmt.Sprintf("EMP%06d", now.UnixMilli()%1_000_000)
}

func parseIntDefault(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloatDefault(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
