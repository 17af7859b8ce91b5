package domain

import (
	"encoding/json"
	"time"
)

var CustomerStatuses = []string{"Active", "Inactive"}

// Lead statuses.
var LeadStatuses = []string{"New", "Contacted", "Qualified", "Lost"}

// Customer is a CRM account.
type Customer struct {
	ID            string    `json:"id"            gorm:"type:char(36);primaryKey"`
	Name          string    `json:"name"          gorm:"type:varchar(255);not null"`
	Company       string    `json:"company"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Status        string    `json:"status"        gorm:"type:varchar(20);not null"`
	Notes         string    `json:"notes"         gorm:"type:text"`
	TotalOrders   int       `json:"totalOrders"`
	LastOrderDate *string   `json:"lastOrderDate"`
	CreatedAt     time.Time `json:"createdAt"     gorm:"index"`
}

func (Customer) TableName() string     { return "customers" }
func (c *Customer) PrimaryKey() string { return c.ID }

func (c *Customer) Prepare(id string, now time.Time) {
	c.ID = id
	c.CreatedAt = now
	if c.Status == "" {
		c.Status = "Active"
	}
}

func (c *Customer) Validate() error {
	return firstErr(
		required("name", c.Name),
		nonNegative("totalOrders", float64(c.TotalOrders)),
		oneOf("status", c.Status, CustomerStatuses),
	)
}

var CustomerFields = FieldMap{
	"name":          "name",
	"company":       "company",
	"email":         "email",
	"phone":         "phone",
	"address":       "address",
	"status":        "status",
	"notes":         "notes",
	"totalOrders":   "total_orders",
	"lastOrderDate": "last_order_date",
}

// Lead is a sales prospect that may later be converted into a Customer.
type Lead struct {
	ID             string    `json:"id"             gorm:"type:char(36);primaryKey"`
	Name           string    `json:"name"`
	Company        string    `json:"company"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Source         string    `json:"source"`
	Status         string    `json:"status"         gorm:"type:varchar(20);not null"`
	EstimatedValue float64   `json:"estimatedValue"`
	CreatedAt      time.Time `json:"createdAt"      gorm:"index"`
}

// UnmarshalJSON accepts "value" as an alias of "estimatedValue". A non-zero
// estimatedValue wins when both are present.
func (l *Lead) UnmarshalJSON(b []byte) error {
	type plain Lead
	aux := struct {
		*plain
		EstimatedValue *float64 `json:"estimatedValue"`
		Value          *float64 `json:"value"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	switch {
	case aux.EstimatedValue != nil && *aux.EstimatedValue != 0:
		l.EstimatedValue = *aux.EstimatedValue
	case aux.Value != nil:
		l.EstimatedValue = *aux.Value
	case aux.EstimatedValue != nil:
		l.EstimatedValue = 0
	}
	return nil
}

func (Lead) TableName() string     { return "leads" }
func (l *Lead) PrimaryKey() string { return l.ID }

func (l *Lead) Prepare(id string, now time.Time) {
	l.ID = id
	l.CreatedAt = now
	if l.Status == "" {
		l.Status = "New"
	}
}

func (l *Lead) Validate() error {
	return firstErr(
		nonNegative("estimatedValue", l.EstimatedValue),
		oneOf("status", l.Status, LeadStatuses),
	)
}

var LeadFields = FieldMap{
	"name":           "name",
	"company":        "company",
	"email":          "email",
	"phone":          "phone",
	"source":         "source",
	"status":         "status",
	"estimatedValue": "estimated_value",
	"value":          "estimated_value",
}

// ToCustomer builds the customer a converted lead becomes.
func (l Lead) ToCustomer() Customer {
	return Customer{
		Name:    l.Name,
		Company: l.Company,
		Email:   l.Email,
		Phone:   l.Phone,
		Status:  "Active",
		Notes:   "Converted from lead. Source: " + l.Source,
	}
}
