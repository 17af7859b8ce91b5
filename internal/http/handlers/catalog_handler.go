// Inventory and purchasing HTTP handlers. Both modules are plain CRUD:
//   - /api/inventory/products
//   - /api/purchasing/vendors, /purchase-orders, /bills
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/services"
)

// InventoryHandlers serves the inventory module.
type InventoryHandlers struct {
	products *ResourceHandler[domain.Product]
}

// NewInventory binds the inventory handlers to svc.
func NewInventory(svc *services.InventoryService, idem IdempotencyStore) *InventoryHandlers {
	return &InventoryHandlers{
		products: NewResourceHandler[domain.Product](svc.Products, "product", idem),
	}
}

// Register mounts the inventory routes on g.
func (h *InventoryHandlers) Register(g *gin.RouterGroup) {
	h.products.Register(g.Group("/products"))
}

// PurchasingHandlers serves the purchasing module.
type PurchasingHandlers struct {
	vendors *ResourceHandler[domain.Vendor]
	orders  *ResourceHandler[domain.PurchaseOrder]
	bills   *ResourceHandler[domain.Bill]
}

// NewPurchasing binds the purchasing handlers to svc.
func NewPurchasing(svc *services.PurchasingService, idem IdempotencyStore) *PurchasingHandlers {
	return &PurchasingHandlers{
		vendors: NewResourceHandler[domain.Vendor](svc.Vendors, "vendor", idem),
		orders:  NewResourceHandler[domain.PurchaseOrder](svc.PurchaseOrders, "purchase order", idem),
		bills:   NewResourceHandler[domain.Bill](svc.Bills, "bill", idem),
	}
}

// Register mounts the purchasing routes on g.
func (h *PurchasingHandlers) Register(g *gin.RouterGroup) {
	h.vendors.Register(g.Group("/vendors"))
	h.orders.Register(g.Group("/purchase-orders"))
	h.bills.Register(g.Group("/bills"))
}
