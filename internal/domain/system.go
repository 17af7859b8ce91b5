package domain

import (
	"strings"
	"time"
)

// User roles.
const (
	RoleSuperAdmin     = "super_admin"
	RoleEcommerceAdmin = "ecommerce_admin"
	RoleDevAdmin       = "dev_admin"
	RoleUser           = "user"
)

var Roles = []string{RoleSuperAdmin, RoleEcommerceAdmin, RoleDevAdmin, RoleUser}

var UserStatuses = []string{"Active", "Inactive"}

// NormalizeRole maps anything outside the role vocabulary to RoleUser.
func NormalizeRole(r string) string {
	r = strings.TrimSpace(r)
	for _, known := range Roles {
		if r == known {
			return r
		}
	}
	return RoleUser
}

// RoleDepartment returns the department implied by an admin role, or "".
func RoleDepartment(role string) string {
	switch role {
	case RoleDevAdmin:
		return "Development"
	case RoleEcommerceAdmin:
		return "Ecommerce"
	}
	return ""
}

// User is an account that can sign in. PasswordHash never leaves the server.
type User struct {
	ID              string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Name            string    `json:"name"            gorm:"type:varchar(150);not null"`
	Email           string    `json:"email"           gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash    string    `json:"-"               gorm:"not null"`
	Role            string    `json:"role"            gorm:"type:varchar(32);not null;check:role IN ('super_admin','ecommerce_admin','dev_admin','user')"`
	Avatar          string    `json:"avatar"          gorm:"column:avatar_url"`
	Status          string    `json:"status"          gorm:"type:varchar(20);not null"`
	SharePercentage float64   `json:"sharePercentage"`
	Department      string    `json:"department"`
	CreatedAt       time.Time `json:"createdAt"       gorm:"index"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (User) TableName() string     { return "users" }
func (u *User) PrimaryKey() string { return u.ID }

func (u *User) Prepare(id string, now time.Time) {
	u.ID = id
	u.CreatedAt, u.UpdatedAt = now, now
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Role = NormalizeRole(u.Role)
	if u.Department == "" {
		u.Department = RoleDepartment(u.Role)
	}
	if u.Status == "" {
		u.Status = "Active"
	}
}

func (u *User) Validate() error {
	if u.SharePercentage < 0 || u.SharePercentage > 100 {
		return &ValidationError{Field: "sharePercentage", Msg: "must be between 0 and 100"}
	}
	return firstErr(
		required("name", u.Name),
		required("email", u.Email),
		oneOf("role", u.Role, Roles),
		oneOf("status", u.Status, UserStatuses),
	)
}

func (u *User) Touch(now time.Time) string {
	u.UpdatedAt = now
	return "updated_at"
}

// UserFields is the admin patch allow-list. Email and password are not
// editable through it.
var UserFields = FieldMap{
	"name":            "name",
	"role":            "role",
	"status":          "status",
	"avatar":          "avatar_url",
	"department":      "department",
	"sharePercentage": "share_percentage",
}

// ActivityLog is an append-only audit entry.
type ActivityLog struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	User      string    `json:"user"      gorm:"type:varchar(255)"`
	Action    string    `json:"action"`
	Module    string    `json:"module"    gorm:"type:varchar(50);index"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_activity_logs_ts"`
	IP        string    `json:"ip"        gorm:"type:varchar(64)"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

// CompanyProfileID is the primary key of the singleton profile row.
const CompanyProfileID = "default"

// CompanyProfile is the organisation's identity shown across the app.
type CompanyProfile struct {
	ID                 string    `json:"-"                  gorm:"type:varchar(16);primaryKey"`
	Name               string    `json:"name"`
	LegalName          string    `json:"legalName"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Website            string    `json:"website,omitempty"`
	Logo               string    `json:"logo,omitempty"`
	Address            string    `json:"address,omitempty"`
	Description        string    `json:"description,omitempty" gorm:"type:text"`
	FoundedYear        string    `json:"foundedYear,omitempty"`
	TaxID              string    `json:"taxId,omitempty"`
	RegistrationNumber string    `json:"registrationNumber,omitempty"`
	VATNumber          string    `json:"vatNumber,omitempty"`
	PrimaryLanguage    string    `json:"primaryLanguage,omitempty"`
	TimeZone           string    `json:"timeZone,omitempty"`
	Type               string    `json:"type,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (CompanyProfile) TableName() string { return "company_profile" }

// DefaultCompanyProfile is served until a profile has been saved.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:      "Financa Global",
		LegalName: "Financa Technologies Pvt Ltd",
		Email:     "admin@financa.com",
	}
}

// Sequence is a named monotonic counter backing business numbers.
type Sequence struct {
	Name  string `gorm:"type:varchar(32);primaryKey"`
	Value int64  `gorm:"not null"`
}

func (Sequence) TableName() string { return "sequences" }

// SchemaMigration records a schema version applied by AutoMigrate.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }
