package domain

import "time"

// Employee statuses.
var EmployeeStatuses = []string{"Active", "On Leave", "Terminated"}

// Leave statuses.
const (
	LeavePending  = "Pending"
	LeaveApproved = "Approved"
	LeaveRejected = "Rejected"
)

var LeaveStatuses = []string{LeavePending, LeaveApproved, LeaveRejected}

// Employee is a staff member record. Department is denormalized by name;
// DepartmentID optionally links to a Department row.
type Employee struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	FirstName    string    `json:"firstName"    gorm:"type:varchar(100);not null"`
	LastName     string    `json:"lastName"     gorm:"type:varchar(100);not null"`
	Email        string    `json:"email"        gorm:"type:varchar(255);not null;uniqueIndex:ux_employees_email"`
	Position     string    `json:"position"`
	DepartmentID *string   `json:"departmentId" gorm:"type:char(36);index"`
	Department   string    `json:"department"   gorm:"column:department_name"`
	Salary       float64   `json:"salary"`
	JoinDate     string    `json:"joinDate"`
	Status       string    `json:"status"       gorm:"type:varchar(20);not null"`
	Avatar       string    `json:"avatar"       gorm:"column:avatar_url"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"createdAt"    gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Employee) TableName() string     { return "employees" }
func (e *Employee) PrimaryKey() string { return e.ID }

func (e *Employee) Prepare(id string, now time.Time) {
	e.ID = id
	e.CreatedAt, e.UpdatedAt = now, now
	if e.Status == "" {
		e.Status = "Active"
	}
	if e.JoinDate == "" {
		e.JoinDate = Today(now)
	}
}

func (e *Employee) Validate() error {
	return firstErr(
		required("firstName", e.FirstName),
		required("lastName", e.LastName),
		required("email", e.Email),
		nonNegative("salary", e.Salary),
		oneOf("status", e.Status, EmployeeStatuses),
	)
}

// Touch bumps updated_at on partial updates.
func (e *Employee) Touch(now time.Time) string {
	e.UpdatedAt = now
	return "updated_at"
}

// EmployeeFields is the patch allow-list for employees.
var EmployeeFields = FieldMap{
	"firstName":    "first_name",
	"lastName":     "last_name",
	"email":        "email",
	"position":     "position",
	"department":   "department_name",
	"departmentId": "department_id",
	"salary":       "salary",
	"joinDate":     "join_date",
	"status":       "status",
	"avatar":       "avatar_url",
	"phone":        "phone",
	"address":      "address",
}

// Department groups employees under a head and a budget.
type Department struct {
	ID               string    `json:"id"               gorm:"type:char(36);primaryKey"`
	Name             string    `json:"name"             gorm:"type:varchar(150);not null"`
	HeadOfDepartment string    `json:"headOfDepartment"`
	Budget           float64   `json:"budget"`
	CreatedAt        time.Time `json:"createdAt"        gorm:"index"`
}

func (Department) TableName() string     { return "departments" }
func (d *Department) PrimaryKey() string { return d.ID }

func (d *Department) Prepare(id string, now time.Time) {
	d.ID = id
	d.CreatedAt = now
}

func (d *Department) Validate() error {
	return firstErr(required("name", d.Name), nonNegative("budget", d.Budget))
}

var DepartmentFields = FieldMap{
	"name":             "name",
	"headOfDepartment": "head_of_department",
	"budget":           "budget",
}

// Leave is a time-off request raised for an employee. Leaves are removed
// together with their employee.
type Leave struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	EmployeeID   string    `json:"employeeId"   gorm:"type:char(36);not null;index:idx_leaves_employee"`
	EmployeeName string    `json:"employeeName"`
	Type         string    `json:"type"         gorm:"type:varchar(50)"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Days         int       `json:"days"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"       gorm:"type:varchar(20);not null;index"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"createdAt"    gorm:"index"`

	Employee *Employee `json:"-" gorm:"foreignKey:EmployeeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Leave) TableName() string     { return "leaves" }
func (l *Leave) PrimaryKey() string { return l.ID }

func (l *Leave) Prepare(id string, now time.Time) {
	l.ID = id
	l.CreatedAt = now
	if l.Status == "" {
		l.Status = LeavePending
	}
	if l.Days == 0 {
		l.Days = leaveDays(l.StartDate, l.EndDate)
	}
}

func (l *Leave) Validate() error {
	return firstErr(
		required("employeeId", l.EmployeeID),
		oneOf("status", l.Status, LeaveStatuses),
	)
}

var LeaveFields = FieldMap{
	"employeeId":   "employee_id",
	"employeeName": "employee_name",
	"type":         "type",
	"startDate":    "start_date",
	"endDate":      "end_date",
	"days":         "days",
	"reason":       "reason",
	"status":       "status",
	"department":   "department",
}

// leaveDays counts inclusive calendar days between two ISO dates, or 0 when
// either is missing or unparsable.
func leaveDays(start, end string) int {
	s, err1 := time.Parse("2006-01-02", firstN(start, 10))
	e, err2 := time.Parse("2006-01-02", firstN(end, 10))
	if err1 != nil || err2 != nil || e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
