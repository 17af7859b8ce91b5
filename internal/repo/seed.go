package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

// Seed account credentials for a fresh install.
const (
	SeedAdminEmail    = "admin@test.com"
	SeedAdminPassword = "password"
)

var seedEmployees = []struct {
	first, last, position, department string
	salary                            float64
}{
	{"Olivia", "Bennett", "Engineering Manager", "Development", 98000},
	{"Liam", "Carter", "Backend Engineer", "Development", 82000},
	{"Emma", "Hughes", "Frontend Engineer", "Development", 78000},
	{"Noah", "Patel", "Accountant", "Finance", 64000},
	{"Ava", "Morgan", "Financial Analyst", "Finance", 69000},
	{"Ethan", "Reyes", "HR Specialist", "Human Resources", 58000},
	{"Sophia", "Kim", "Store Manager", "Ecommerce", 72000},
	{"Mason", "Dubois", "Warehouse Lead", "Operations", 51000},
	{"Isabella", "Rossi", "Sales Executive", "Sales", 60000},
	{"Lucas", "Novak", "Procurement Officer", "Operations", 57000},
}

// Seed inserts the super admin and sample employees into empty tables.
// Tables that already hold rows are left untouched.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&domain.User{}).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			admin := domain.User{
				Name:         "Super Admin",
				Email:        SeedAdminEmail,
				PasswordHash: string(hash),
				Role:         domain.RoleSuperAdmin,
			}
			admin.Prepare(uuid.NewString(), now)
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
		}

		var employees int64
		if err := tx.Model(&domain.Employee{}).Count(&employees).Error; err != nil {
			return err
		}
		if employees > 0 {
			return nil
		}
		rows := make([]domain.Employee, 0, len(seedEmployees))
		for i, s := range seedEmployees {
			e := domain.Employee{
				FirstName:  s.first,
				LastName:   s.last,
				Email:      fmt.Sprintf("%s.%s@financa.com", strings.ToLower(s.first), strings.ToLower(s.last)),
				Position:   s.position,
				Department: s.department,
				Salary:     s.salary,
				Phone:      fmt.Sprintf("+1 555 010 %04d", i+1),
			}
			// Stagger creation so the list order is stable.
			created := now.Add(-time.Duration(len(seedEmployees)-i) * time.Minute)
			e.Prepare(uuid.NewString(), created)
			e.JoinDate = domain.Today(now.AddDate(0, -(i+1)*3, 0))
			rows = append(rows, e)
		}
		return tx.Create(&rows).Error
	})
}
