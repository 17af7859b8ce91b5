package domain

import "time"

var InvoiceStatuses = []string{"Paid", "Pending", "Overdue"}

var PaymentStatuses = []string{"Completed", "Paid", "Pending", "Failed"}

// Invoice is a customer bill. Amount and Items are denormalized totals of
// LineItems computed once at creation.
type Invoice struct {
	ID            string    `json:"id"            gorm:"type:char(36);primaryKey"`
	InvoiceNumber string    `json:"invoiceNumber" gorm:"type:varchar(32);not null;uniqueIndex:ux_invoices_number"`
	Customer      string    `json:"customer"      gorm:"column:customer_name"`
	Date          string    `json:"date"`
	DueDate       string    `json:"dueDate"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"        gorm:"type:varchar(20);not null"`
	Items         int       `json:"items"         gorm:"column:items_count"`
	CreatedAt     time.Time `json:"createdAt"     gorm:"index"`

	LineItems []InvoiceItem `json:"lineItems,omitempty" gorm:"foreignKey:InvoiceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Invoice) TableName() string     { return "invoices" }
func (i *Invoice) PrimaryKey() string { return i.ID }

func (i *Invoice) Prepare(id string, now time.Time) {
	i.ID = id
	i.CreatedAt = now
	if i.Status == "" {
		i.Status = "Pending"
	}
	if i.Date == "" {
		i.Date = Today(now)
	}
}

func (i *Invoice) Validate() error {
	return firstErr(
		nonNegative("amount", i.Amount),
		oneOf("status", i.Status, InvoiceStatuses),
	)
}

func (i *Invoice) SequencePrefix() string { return "INV" }
func (i *Invoice) SetNumber(n string)     { i.InvoiceNumber = n }

// Total recomputes Amount and Items from LineItems.
func (i *Invoice) Total() {
	var sum float64
	for _, it := range i.LineItems {
		sum += it.Amount
	}
	i.Amount = sum
	i.Items = len(i.LineItems)
}

// InvoiceItem is one line of an invoice. ProductID is set when the line
// refers to a catalogue product.
type InvoiceItem struct {
	ID          string  `json:"id"          gorm:"type:char(36);primaryKey"`
	InvoiceID   string  `json:"invoiceId"   gorm:"type:char(36);not null;index:idx_invoice_items_invoice,priority:1"`
	Line        int     `json:"line"        gorm:"not null;index:idx_invoice_items_invoice,priority:2"`
	ProductID   *string `json:"productId"   gorm:"type:char(36)"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// Payment is an outgoing vendor payment.
type Payment struct {
	ID            string    `json:"id"            gorm:"type:char(36);primaryKey"`
	PaymentNumber string    `json:"paymentNumber" gorm:"type:varchar(32);not null;uniqueIndex:ux_payments_number"`
	Vendor        string    `json:"vendor"`
	Amount        float64   `json:"amount"`
	Date          string    `json:"date"`
	Method        string    `json:"method"`
	Status        string    `json:"status"        gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time `json:"createdAt"     gorm:"index"`
}

func (Payment) TableName() string     { return "payments" }
func (p *Payment) PrimaryKey() string { return p.ID }

func (p *Payment) Prepare(id string, now time.Time) {
	p.ID = id
	p.CreatedAt = now
	p.Date = now.UTC().Format(time.RFC3339)
	if p.Status == "" {
		p.Status = "Completed"
	}
}

func (p *Payment) Validate() error {
	return firstErr(
		nonNegative("amount", p.Amount),
		oneOf("status", p.Status, PaymentStatuses),
	)
}

func (p *Payment) SequencePrefix() string { return "PAY" }
func (p *Payment) SetNumber(n string)     { p.PaymentNumber = n }
