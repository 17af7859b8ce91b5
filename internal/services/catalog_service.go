package services

import (
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

// InventoryService exposes the product catalogue.
type InventoryService struct {
	Products *Resource[domain.Product, *domain.Product]
}

// NewInventoryService wires the product resource on db.
func NewInventoryService(db *gorm.DB, act *Activity) *InventoryService {
	return &InventoryService{
		Products: &Resource[domain.Product, *domain.Product]{
			DB: db, Name: "product", Module: "Inventory", Activity: act,
			Fields: domain.ProductFields, Order: "created_at DESC",
		},
	}
}

// PurchasingService groups vendors, purchase orders and bills.
type PurchasingService struct {
	Vendors        *Resource[domain.Vendor, *domain.Vendor]
	PurchaseOrders *Resource[domain.PurchaseOrder, *domain.PurchaseOrder]
	Bills          *Resource[domain.Bill, *domain.Bill]
}

// NewPurchasingService wires the purchasing resources on db. Orders and
// bills are listed by business date.
func NewPurchasingService(db *gorm.DB, act *Activity) *PurchasingService {
	return &PurchasingService{
		Vendors: &Resource[domain.Vendor, *domain.Vendor]{
			DB: db, Name: "vendor", Module: "Purchasing", Activity: act,
			Fields: domain.VendorFields, Order: "created_at DESC",
		},
		PurchaseOrders: &Resource[domain.PurchaseOrder, *domain.PurchaseOrder]{
			DB: db, Name: "purchase order", Module: "Purchasing", Activity: act,
			Fields: domain.PurchaseOrderFields, ReadOnly: []string{"poNumber"},
			Order: "date DESC, created_at DESC",
		},
		Bills: &Resource[domain.Bill, *domain.Bill]{
			DB: db, Name: "bill", Module: "Purchasing", Activity: act,
			Fields: domain.BillFields, ReadOnly: []string{"billNumber"},
			Order: "date DESC, created_at DESC",
		},
	}
}
