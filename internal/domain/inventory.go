package domain

import "time"

// ProductStatuses is the catalogue lifecycle vocabulary. "Low Stock" is not a
// status; it is derived from Stock <= MinStock.
var ProductStatuses = []string{"Active", "Inactive", "Draft", "Archived"}

// Product is an inventory item identified by a unique SKU.
type Product struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null"`
	SKU         string    `json:"sku"         gorm:"type:varchar(64);not null;uniqueIndex:ux_products_sku"`
	Category    string    `json:"category"    gorm:"type:varchar(100)"`
	Price       float64   `json:"price"       gorm:"not null"`
	Stock       int       `json:"stock"`
	MinStock    int       `json:"minStock"`
	Supplier    string    `json:"supplier"`
	Status      string    `json:"status"      gorm:"type:varchar(20);not null"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"index"`
}

func (Product) TableName() string     { return "products" }
func (p *Product) PrimaryKey() string { return p.ID }

// Prepare applies catalogue defaults. A missing minStock means 10; an
// explicit 0 cannot be told apart and is treated the same way.
func (p *Product) Prepare(id string, now time.Time) {
	p.ID = id
	p.CreatedAt, p.LastUpdated = now, now
	if p.Status == "" {
		p.Status = "Active"
	}
	if p.MinStock == 0 {
		p.MinStock = 10
	}
}

func (p *Product) Validate() error {
	return firstErr(
		required("name", p.Name),
		required("sku", p.SKU),
		nonNegative("price", p.Price),
		nonNegative("stock", float64(p.Stock)),
		nonNegative("minStock", float64(p.MinStock)),
		oneOf("status", p.Status, ProductStatuses),
	)
}

func (p *Product) Touch(now time.Time) string {
	p.LastUpdated = now
	return "last_updated"
}

// LowStock reports whether the product has reached its reorder threshold.
func (p Product) LowStock() bool { return p.Stock <= p.MinStock }

var ProductFields = FieldMap{
	"name":     "name",
	"sku":      "sku",
	"category": "category",
	"price":    "price",
	"stock":    "stock",
	"minStock": "min_stock",
	"supplier": "supplier",
	"status":   "status",
}
