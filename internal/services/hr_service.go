package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HRService groups employees, departments and leave requests.
type HRService struct {
	DB          *gorm.DB
	Employees   *Resource[domain.Employee, *domain.Employee]
	Departments *Resource[domain.Department, *domain.Department]
	Leaves      *Resource[domain.Leave, *domain.Leave]
}

// NewHRService wires the HR resources on db.
func NewHRService(db *gorm.DB, act *Activity) *HRService {
	return &HRService{
		DB: db,
		Employees: &Resource[domain.Employee, *domain.Employee]{
			DB: db, Name: "employee", Module: "HR", Activity: act,
			Fields: domain.EmployeeFields, Order: "created_at DESC",
		},
		Departments: &Resource[domain.Department, *domain.Department]{
			DB: db, Name: "department", Module: "HR", Activity: act,
			Fields: domain.DepartmentFields, Order: "created_at DESC",
		},
		Leaves: &Resource[domain.Leave, *domain.Leave]{
			DB: db, Name: "leave", Module: "HR", Activity: act,
			Fields: domain.LeaveFields, Order: "created_at DESC",
			BeforeCreate: fillLeave,
		},
	}
}

// fillLeave checks the employee exists and copies its name and department
// onto the leave when the client left them out.
func fillLeave(ctx context.Context, tx *gorm.DB, l *domain.Leave) error {
	emp, err := repo.Get[domain.Employee](ctx, tx, l.EmployeeID)
	if repo.IsNotFound(err) {
		return &domain.ValidationError{Field: "employeeId", Msg: "unknown employee"}
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(l.EmployeeName) == "" {
		l.EmployeeName = strings.TrimSpace(emp.FirstName + " " + emp.LastName)
	}
	if l.Department == "" {
		l.Department = emp.Department
	}
	return nil
}

// EmployeeLeaves returns one employee's leaves, latest start date first.
func (s *HRService) EmployeeLeaves(ctx context.Context, employeeID string) ([]domain.Leave, error) {
	tr := otel.Tracer("services/HRService")
	ctx, span := tr.Start(ctx, "EmployeeLeaves",
		trace.WithAttributes(attribute.String("employee.id", employeeID)),
	)
	defer span.End()

	ok, err := repo.Exists[domain.Employee](ctx, s.DB, employeeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return repo.ListWhere[domain.Leave](ctx, s.DB, "employee_id", employeeID, "start_date DESC")
}

// PendingLeaves returns leaves still awaiting a decision, newest first.
func (s *HRService) PendingLeaves(ctx context.Context) ([]domain.Leave, error) {
	tr := otel.Tracer("services/HRService")
	ctx, span := tr.Start(ctx, "PendingLeaves")
	defer span.End()

	return repo.ListWhere[domain.Leave](ctx, s.DB, "status", domain.LeavePending, "created_at DESC")
}
