// services/list.go
package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type ListInvoicesInput struct {
	ClientID       string
	Kind           string
	IncludeDeleted bool
	OnlyDeleted    bool
	WithClient     bool
	Page           int
	Limit          int
}

// ClientSnippet is the denormalized client data joined into list and detail
// responses for display only.
type ClientSnippet struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type InvoiceList struct {
	Invoices []models.Invoice         `json:"invoices"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	Limit    int                      `json:"limit"`
	Clients  map[string]ClientSnippet `json:"clients,omitempty"`
}

func (s *LedgerService) listQuery(tenantID uuid.UUID, in ListInvoicesInput) *gorm.DB {
	query := s.db.Model(&models.Invoice{}).Where("tenant_id = ?", tenantID)
	switch {
	case in.OnlyDeleted:
		query = query.Where("deleted_at IS NOT NULL")
	case !in.IncludeDeleted:
		query = query.Where("deleted_at IS NULL")
	}
	if in.ClientID != "" {
		query = query.Where("client_id = ?", in.ClientID)
	}
	if in.Kind != "" {
		query = query.Where("kind = ?", in.Kind)
	}
	return query
}

// List returns a page of invoices, newest first, optionally joined with a
// client snippet for display.
func (s *LedgerService) List(tenantID uuid.UUID, in ListInvoicesInput) (*InvoiceList, error) {
	if in.Kind != "" && !models.ValidInvoiceKind(in.Kind) {
		return nil, &ValidationError{Field: "kind", Message: "unsupported invoice kind"}
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var total int64
	if err := s.listQuery(tenantID, in).Count(&total).Error; err != nil {
		return nil, err
	}

	var invoices []models.Invoice
	if err := s.listQuery(tenantID, in).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC, created_at ASC") }).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	result := &InvoiceList{Invoices: invoices, Total: total, Page: page, Limit: limit}

	if in.WithClient {
		clients, err := s.clientSnippets(tenantID, invoices)
		if err != nil {
			return nil, err
		}
		result.Clients = clients
	}
	return result, nil
}

// ClientSnippet fetches the display snippet for a single client. A dangling
// client id yields nil, not an error: the snippet is decoration only.
func (s *LedgerService) ClientSnippet(tenantID uuid.UUID, clientID string) (*ClientSnippet, error) {
	var client models.Client
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, clientID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ClientSnippet{Name: client.Name, Email: client.Email, Phone: client.Phone}, nil
}

func (s *LedgerService) clientSnippets(tenantID uuid.UUID, invoices []models.Invoice) (map[string]ClientSnippet, error) {
	ids := make([]string, 0, len(invoices))
	seen := map[string]bool{}
	for _, inv := range invoices {
		if !seen[inv.ClientID] {
			seen[inv.ClientID] = true
			ids = append(ids, inv.ClientID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var clients []models.Client
	if err := s.db.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&clients).Error; err != nil {
		return nil, err
	}

	snippets := make(map[string]ClientSnippet, len(clients))
	for _, c := range clients {
		snippets[c.ID] = ClientSnippet{Name: c.Name, Email: c.Email, Phone: c.Phone}
	}
	return snippets, nil
}

// ExportCSV renders the filtered invoice set as a flat table. Pagination is
// ignored; an export always covers the whole selection.
func (s *LedgerService) ExportCSV(tenantID uuid.UUID, in ListInvoicesInput) ([]byte, error) {
	if in.Kind != "" && !models.ValidInvoiceKind(in.Kind) {
		return nil, &ValidationError{Field: "kind", Message: "unsupported invoice kind"}
	}

	var invoices []models.Invoice
	if err := s.listQuery(tenantID, in).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{
		"id", "clientId", "kind", "currency", "totalAmount", "advanceAmount",
		"creditAmount", "remainingAmount", "status", "createdAt", "deletedAt",
	}); err != nil {
		return nil, err
	}
	for i := range invoices {
		inv := &invoices[i]
		deletedAt := ""
		if inv.DeletedAt != nil {
			deletedAt = inv.DeletedAt.Format(time.RFC3339)
		}
		if err := w.Write([]string{
			inv.ID.String(),
			inv.ClientID,
			inv.Kind,
			inv.Currency,
			inv.TotalAmount.StringFixed(2),
			inv.AdvanceAmount.StringFixed(2),
			inv.CreditAmount.StringFixed(2),
			inv.Remaining().StringFixed(2),
			inv.Status,
			inv.CreatedAt.Format(time.RFC3339),
			deletedAt,
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
