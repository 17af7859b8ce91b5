package domain

import "time"

var VendorStatuses = []string{"Active", "Inactive"}

var PurchaseOrderStatuses = []string{"Draft", "Ordered", "Received", "Cancelled"}

var BillStatuses = []string{"Paid", "Pending", "Overdue"}

// Vendor is a supplier rated 0 to 5.
type Vendor struct {
	ID            string    `json:"id"            gorm:"type:char(36);primaryKey"`
	CompanyName   string    `json:"companyName"   gorm:"type:varchar(255);not null"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Rating        int       `json:"rating"`
	Status        string    `json:"status"        gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time `json:"createdAt"     gorm:"index"`
}

func (Vendor) TableName() string     { return "vendors" }
func (v *Vendor) PrimaryKey() string { return v.ID }

func (v *Vendor) Prepare(id string, now time.Time) {
	v.ID = id
	v.CreatedAt = now
	if v.Status == "" {
		v.Status = "Active"
	}
	if v.Rating == 0 {
		v.Rating = 5
	}
}

func (v *Vendor) Validate() error {
	if v.Rating < 0 || v.Rating > 5 {
		return &ValidationError{Field: "rating", Msg: "must be between 0 and 5"}
	}
	return firstErr(
		required("companyName", v.CompanyName),
		oneOf("status", v.Status, VendorStatuses),
	)
}

var VendorFields = FieldMap{
	"companyName":   "company_name",
	"contactPerson": "contact_person",
	"email":         "email",
	"phone":         "phone",
	"address":       "address",
	"rating":        "rating",
	"status":        "status",
}

// PurchaseOrder is an order placed with a vendor.
type PurchaseOrder struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	PONumber     string    `json:"poNumber"     gorm:"type:varchar(32);not null;uniqueIndex:ux_purchase_orders_number"`
	VendorID     *string   `json:"vendorId"     gorm:"type:char(36);index"`
	Vendor       string    `json:"vendor"`
	Date         string    `json:"date"         gorm:"index"`
	ExpectedDate string    `json:"expectedDate"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"       gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (PurchaseOrder) TableName() string     { return "purchase_orders" }
func (p *PurchaseOrder) PrimaryKey() string { return p.ID }

func (p *PurchaseOrder) Prepare(id string, now time.Time) {
	p.ID = id
	p.CreatedAt = now
	if p.Status == "" {
		p.Status = "Draft"
	}
	if p.Date == "" {
		p.Date = Today(now)
	}
}

func (p *PurchaseOrder) Validate() error {
	return firstErr(
		nonNegative("amount", p.Amount),
		oneOf("status", p.Status, PurchaseOrderStatuses),
	)
}

func (p *PurchaseOrder) SequencePrefix() string { return "PO" }
func (p *PurchaseOrder) SetNumber(n string)     { p.PONumber = n }

var PurchaseOrderFields = FieldMap{
	"vendor":       "vendor",
	"vendorId":     "vendor_id",
	"date":         "date",
	"expectedDate": "expected_date",
	"amount":       "amount",
	"status":       "status",
}

// Bill is a payable received from a vendor.
type Bill struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	BillNumber string    `json:"billNumber" gorm:"type:varchar(32);not null;uniqueIndex:ux_bills_number"`
	VendorID   *string   `json:"vendorId"   gorm:"type:char(36);index"`
	Vendor     string    `json:"vendor"`
	Date       string    `json:"date"       gorm:"index"`
	DueDate    string    `json:"dueDate"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"     gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Bill) TableName() string     { return "bills" }
func (b *Bill) PrimaryKey() string { return b.ID }

func (b *Bill) Prepare(id string, now time.Time) {
	b.ID = id
	b.CreatedAt = now
	if b.Status == "" {
		b.Status = "Pending"
	}
	if b.Date == "" {
		b.Date = Today(now)
	}
}

func (b *Bill) Validate() error {
	return firstErr(
		nonNegative("amount", b.Amount),
		oneOf("status", b.Status, BillStatuses),
	)
}

func (b *Bill) SequencePrefix() string { return "BILL" }
func (b *Bill) SetNumber(n string)     { b.BillNumber = n }

var BillFields = FieldMap{
	"vendor":   "vendor",
	"vendorId": "vendor_id",
	"date":     "date",
	"dueDate":  "due_date",
	"amount":   "amount",
	"status":   "status",
}
