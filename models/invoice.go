// models/invoice.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/utils"
)

// Invoice kinds. "client-billed" invoices go on the client's account instead
// of being settled at the counter.
const (
	InvoiceKindStandard     = "standard"
	InvoiceKindClientBilled = "client-billed"
)

// Invoice statuses. Status is always derived from the monetary state and is
// never accepted from a caller.
const (
	StatusDraft   = "draft"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

var SupportedCurrencies = map[string]bool{
	"EUR": true,
	"USD": true,
	"GBP": true,
	"MAD": true,
}

const DefaultCurrency = "EUR"

func ValidInvoiceKind(kind string) bool {
	return kind == InvoiceKindStandard || kind == InvoiceKindClientBilled
}

type Invoice struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenantId"`
	ClientID string    `gorm:"type:char(24);index;not null" json:"clientId"`

	Kind     string `gorm:"type:varchar(20);default:'standard'" json:"kind"`
	Currency string `gorm:"type:varchar(3);not null" json:"currency"`

	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	AdvanceAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"advanceAmount"`
	CreditAmount  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"creditAmount"`

	// Derived on every read, never persisted.
	RemainingAmount decimal.Decimal `gorm:"-" json:"remainingAmount"`

	Status string `gorm:"type:varchar(10);default:'draft'" json:"status"`

	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payments"`

	PrescriptionSnapshot JSONB         `gorm:"type:jsonb" json:"prescriptionSnapshot,omitempty"`
	Notes                *InvoiceNotes `gorm:"type:jsonb" json:"notes,omitempty"`

	// Optimistic lock; every mutation increments it.
	Version int `gorm:"not null;default:1" json:"-"`

	DeletedAt *time.Time `gorm:"index" json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PaidToDate is the amount already covering the invoice: recorded payments
// plus out-of-band credit.
func (i *Invoice) PaidToDate() decimal.Decimal {
	return i.AdvanceAmount.Add(i.CreditAmount)
}

// Remaining is the open balance, floored at zero.
func (i *Invoice) Remaining() decimal.Decimal {
	return utils.Remaining(i.TotalAmount, i.PaidToDate())
}

func (i *Invoice) AfterFind(tx *gorm.DB) error {
	i.RemainingAmount = i.Remaining()
	return nil
}

// InvoiceItem lines are descriptive only; the open-balance invariant compares
// TotalAmount against payments, so line sums and TotalAmount may diverge
// when the total is overridden manually.
type InvoiceItem struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID        `gorm:"type:uuid;index;not null" json:"invoiceId"`
	Name      string           `gorm:"not null" json:"name"`
	Quantity  int              `gorm:"default:1" json:"quantity"`
	UnitPrice decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Category  string           `gorm:"default:'general'" json:"category"`
	TaxRate   *decimal.Decimal `gorm:"type:decimal(5,2)" json:"taxRate,omitempty"`
	Discount  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount,omitempty"`
	Position  int              `gorm:"not null;default:0" json:"-"`
}

// Payment entries are immutable once recorded; the only allowed mutation of a
// ledger is appending a new entry or removing one by id.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;index;not null" json:"invoiceId"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	PaidAt    time.Time       `gorm:"not null" json:"paidAt"`
	CreatedAt time.Time       `json:"-"`
}

// InvoiceNotes is the structured notes blob attached to an invoice.
type InvoiceNotes struct {
	Reason  string `json:"reason,omitempty"`
	Comment string `json:"comment,omitempty"`
}

func (n InvoiceNotes) Value() (driver.Value, error) {
	return json.Marshal(n)
}

func (n *InvoiceNotes) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return errors.New("unsupported type for InvoiceNotes scan")
	}
}
