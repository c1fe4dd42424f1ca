// services/summary.go
package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stizirine/booklio-application-sub001/models"
)

// ClientSummary is a derived read-model, recomputed in full after every
// mutation that touches a client's invoice set. It is never the source of
// truth and is always safe to throw away and rebuild.
type ClientSummary struct {
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	DueAmount     decimal.Decimal `json:"dueAmount"`
	InvoiceCount  int             `json:"invoiceCount"`
	LastInvoiceAt *time.Time      `json:"lastInvoiceAt"`
}

// ClientSummary scans all active invoices of one client and folds them into
// the summary. A client with no active invoices gets an all-zero summary, not
// an error. The full rescan trades recomputation cost for correctness; no
// incremental counters exist that could drift.
func (s *LedgerService) ClientSummary(tenantID uuid.UUID, clientID string) (*ClientSummary, error) {
	var invoices []models.Invoice
	if err := s.db.
		Where("tenant_id = ? AND client_id = ? AND deleted_at IS NULL", tenantID, clientID).
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	summary := &ClientSummary{
		TotalAmount: decimal.Zero,
		DueAmount:   decimal.Zero,
	}
	for i := range invoices {
		inv := &invoices[i]
		summary.TotalAmount = summary.TotalAmount.Add(inv.TotalAmount)
		summary.DueAmount = summary.DueAmount.Add(inv.Remaining())
		summary.InvoiceCount++
		if summary.LastInvoiceAt == nil || inv.CreatedAt.After(*summary.LastInvoiceAt) {
			t := inv.CreatedAt
			summary.LastInvoiceAt = &t
		}
	}
	return summary, nil
}
