// services/ledger_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/models"
	"github.com/stizirine/booklio-application-sub001/utils"
)

// LedgerService is the façade over the invoice & payment ledger. Every
// operation is scoped by tenant and excludes soft-deleted invoices unless
// explicitly asked to include or target them. Callers arrive already
// authenticated; the tenant id is trusted as-is.
type LedgerService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{
		db:  db,
		log: log.With().Str("component", "ledger").Logger(),
	}
}

type ItemInput struct {
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	Category  string           `json:"category"`
	TaxRate   *decimal.Decimal `json:"taxRate"`
	Discount  *decimal.Decimal `json:"discount"`
}

type PaymentInput struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
	PaidAt    *time.Time      `json:"paidAt"`
}

type CreateInvoiceInput struct {
	ClientID             string                `json:"clientId"`
	Kind                 string                `json:"kind"`
	Currency             string                `json:"currency"`
	TotalAmount          decimal.Decimal       `json:"totalAmount"`
	AdvanceAmount        *decimal.Decimal      `json:"advanceAmount"`
	CreditAmount         *decimal.Decimal      `json:"creditAmount"`
	Items                []ItemInput           `json:"items"`
	Payment              *PaymentInput         `json:"payment"`
	Payments             []PaymentInput        `json:"payments"`
	PrescriptionSnapshot models.JSONB         `json:"prescriptionSnapshot"`
	Notes                *models.InvoiceNotes `json:"notes"`
}

// Create validates the payload, seeds creation-time payments, derives the
// status and persists the invoice. Payments, when present, always win over an
// explicitly supplied advance amount.
func (s *LedgerService) Create(tenantID uuid.UUID, in CreateInvoiceInput) (*models.Invoice, *ClientSummary, error) {
	if !utils.ValidateClientID(in.ClientID) {
		return nil, nil, &ValidationError{Field: "clientId", Message: "must be a 24-character hexadecimal identifier"}
	}

	kind := in.Kind
	if kind == "" {
		kind = models.InvoiceKindStandard
	}
	if !models.ValidInvoiceKind(kind) {
		return nil, nil, &ValidationError{Field: "kind", Message: "unsupported invoice kind"}
	}

	currency := in.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if !models.SupportedCurrencies[currency] {
		return nil, nil, &ValidationError{Field: "currency", Message: "unsupported currency"}
	}

	total := utils.MoneyRound(in.TotalAmount)
	if total.IsNegative() {
		return nil, nil, &ValidationError{Field: "totalAmount", Message: "must not be negative"}
	}

	credit := decimal.Zero
	if in.CreditAmount != nil {
		credit = utils.MoneyRound(*in.CreditAmount)
		if credit.IsNegative() {
			return nil, nil, &ValidationError{Field: "creditAmount", Message: "must not be negative"}
		}
	}

	items, err := buildItems(in.Items)
	if err != nil {
		return nil, nil, err
	}

	// Seed payments: a payments array wins over a single payment object, and
	// both win over a manually supplied advance amount.
	entries := in.Payments
	if len(entries) == 0 && in.Payment != nil {
		entries = []PaymentInput{*in.Payment}
	}

	now := time.Now()
	advance := decimal.Zero
	payments := make([]models.Payment, 0, len(entries))
	for _, e := range entries {
		p, err := buildPayment(e, now)
		if err != nil {
			return nil, nil, err
		}
		advance = advance.Add(p.Amount)
		payments = append(payments, p)
	}
	if len(entries) == 0 && in.AdvanceAmount != nil {
		advance = utils.MoneyRound(*in.AdvanceAmount)
		if advance.IsNegative() {
			return nil, nil, &ValidationError{Field: "advanceAmount", Message: "must not be negative"}
		}
	}

	if len(payments) > 0 {
		remaining := utils.Remaining(total, credit)
		if advance.GreaterThan(remaining) {
			return nil, nil, &OverpaymentError{Remaining: remaining}
		}
	}

	inv := &models.Invoice{
		ID:                   uuid.New(),
		TenantID:             tenantID,
		ClientID:             in.ClientID,
		Kind:                 kind,
		Currency:             currency,
		TotalAmount:          total,
		AdvanceAmount:        advance,
		CreditAmount:         credit,
		Status:               DeriveStatus(total, advance.Add(credit)),
		Items:                items,
		Payments:             payments,
		PrescriptionSnapshot: in.PrescriptionSnapshot,
		Notes:                in.Notes,
		Version:              1,
	}

	if err := s.db.Create(inv).Error; err != nil {
		return nil, nil, err
	}

	s.log.Info().
		Str("invoiceId", inv.ID.String()).
		Str("clientId", inv.ClientID).
		Str("status", inv.Status).
		Msg("invoice created")

	return s.finish(tenantID, inv.ID, inv.ClientID)
}

// Get fetches one invoice within the tenant scope. Soft-deleted invoices are
// only returned when includeDeleted is set.
func (s *LedgerService) Get(tenantID, id uuid.UUID, includeDeleted bool) (*models.Invoice, error) {
	return s.get(s.db, tenantID, id, includeDeleted)
}

func (s *LedgerService) get(db *gorm.DB, tenantID, id uuid.UUID, includeDeleted bool) (*models.Invoice, error) {
	query := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC, created_at ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id)
	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	var inv models.Invoice
	if err := query.First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "invoice", ID: id.String()}
		}
		return nil, err
	}
	return &inv, nil
}

type PatchInvoiceInput struct {
	ClientID             *string              `json:"clientId"`
	Kind                 *string              `json:"kind"`
	Currency             *string              `json:"currency"`
	TotalAmount          *decimal.Decimal     `json:"totalAmount"`
	AdvanceAmount        *decimal.Decimal     `json:"advanceAmount"`
	CreditAmount         *decimal.Decimal     `json:"creditAmount"`
	Items                *[]ItemInput         `json:"items"`
	PrescriptionSnapshot models.JSONB         `json:"prescriptionSnapshot"`
	Notes                *models.InvoiceNotes `json:"notes"`
}

// Patch applies a partial update of the mutable fields. Status and the
// payment list are never writable through this path; status is re-derived
// after the update.
func (s *LedgerService) Patch(tenantID, id uuid.UUID, in PatchInvoiceInput) (*models.Invoice, *ClientSummary, error) {
	var clientID string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.get(tx, tenantID, id, false)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}

		if in.ClientID != nil {
			if !utils.ValidateClientID(*in.ClientID) {
				return &ValidationError{Field: "clientId", Message: "must be a 24-character hexadecimal identifier"}
			}
			inv.ClientID = *in.ClientID
			updates["client_id"] = inv.ClientID
		}
		if in.Kind != nil {
			if !models.ValidInvoiceKind(*in.Kind) {
				return &ValidationError{Field: "kind", Message: "unsupported invoice kind"}
			}
			updates["kind"] = *in.Kind
		}
		if in.Currency != nil {
			if !models.SupportedCurrencies[*in.Currency] {
				return &ValidationError{Field: "currency", Message: "unsupported currency"}
			}
			updates["currency"] = *in.Currency
		}
		if in.TotalAmount != nil {
			total := utils.MoneyRound(*in.TotalAmount)
			if total.IsNegative() {
				return &ValidationError{Field: "totalAmount", Message: "must not be negative"}
			}
			inv.TotalAmount = total
			updates["total_amount"] = total
		}
		if in.CreditAmount != nil {
			credit := utils.MoneyRound(*in.CreditAmount)
			if credit.IsNegative() {
				return &ValidationError{Field: "creditAmount", Message: "must not be negative"}
			}
			inv.CreditAmount = credit
			updates["credit_amount"] = credit
		}
		if in.AdvanceAmount != nil {
			// Once any payment exists the advance is derived from the
			// payment list and cannot be set directly.
			if len(inv.Payments) > 0 {
				return &ValidationError{Field: "advanceAmount", Message: "derived from payments and not directly settable"}
			}
			advance := utils.MoneyRound(*in.AdvanceAmount)
			if advance.IsNegative() {
				return &ValidationError{Field: "advanceAmount", Message: "must not be negative"}
			}
			inv.AdvanceAmount = advance
			updates["advance_amount"] = advance
		}
		if in.PrescriptionSnapshot != nil {
			updates["prescription_snapshot"] = in.PrescriptionSnapshot
		}
		if in.Notes != nil {
			updates["notes"] = in.Notes
		}

		var newItems []models.InvoiceItem
		if in.Items != nil {
			newItems, err = buildItems(*in.Items)
			if err != nil {
				return err
			}
			if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}
		}

		// Payments stay authoritative for the advance amount.
		if len(inv.Payments) > 0 {
			inv.AdvanceAmount = sumPayments(inv.Payments)
			updates["advance_amount"] = inv.AdvanceAmount
		}
		updates["status"] = DeriveStatus(inv.TotalAmount, inv.PaidToDate())

		if err := s.applyVersioned(tx, inv, updates); err != nil {
			return err
		}

		if in.Items != nil {
			for i := range newItems {
				newItems[i].InvoiceID = inv.ID
			}
			if len(newItems) > 0 {
				if err := tx.Create(&newItems).Error; err != nil {
					return err
				}
			}
		}

		clientID = inv.ClientID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return s.finish(tenantID, id, clientID)
}

// DeleteResult reports the client affected by a delete; after a hard delete
// the invoice itself is gone, so the client id is captured up front.
type DeleteResult struct {
	ClientID    string         `json:"clientId"`
	Summary     *ClientSummary `json:"clientSummary"`
	HardDeleted bool           `json:"hardDeleted"`
}

// Delete soft-deletes by default; a hard delete removes the row and its
// children and may also target an already soft-deleted invoice.
func (s *LedgerService) Delete(tenantID, id uuid.UUID, hard bool) (*DeleteResult, error) {
	var clientID string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.get(tx, tenantID, id, hard)
		if err != nil {
			return err
		}
		clientID = inv.ClientID

		if hard {
			if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Invoice{}, "id = ?", inv.ID).Error
		}

		now := time.Now()
		return s.applyVersioned(tx, inv, map[string]interface{}{"deleted_at": &now})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoiceId", id.String()).
		Str("clientId", clientID).
		Bool("hard", hard).
		Msg("invoice deleted")

	summary, err := s.ClientSummary(tenantID, clientID)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{ClientID: clientID, Summary: summary, HardDeleted: hard}, nil
}

// applyVersioned runs the optimistic-lock update that every per-invoice
// mutation ends with. A stale version means a concurrent mutation won; the
// surrounding transaction rolls back and the caller must retry.
func (s *LedgerService) applyVersioned(tx *gorm.DB, inv *models.Invoice, updates map[string]interface{}) error {
	updates["version"] = inv.Version + 1
	updates["updated_at"] = time.Now()

	res := tx.Model(&models.Invoice{}).
		Where("id = ? AND tenant_id = ? AND version = ?", inv.ID, inv.TenantID, inv.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ConcurrencyConflictError{Resource: "invoice", ID: inv.ID.String()}
	}
	return nil
}

// finish reloads the invoice and refreshes the client summary after a
// successful mutation.
func (s *LedgerService) finish(tenantID, id uuid.UUID, clientID string) (*models.Invoice, *ClientSummary, error) {
	inv, err := s.Get(tenantID, id, false)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.ClientSummary(tenantID, clientID)
	if err != nil {
		return nil, nil, err
	}
	return inv, summary, nil
}

func buildItems(inputs []ItemInput) ([]models.InvoiceItem, error) {
	items := make([]models.InvoiceItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Name == "" {
			return nil, &ValidationError{Field: "items", Message: "item name is required"}
		}
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 1 {
			return nil, &ValidationError{Field: "items", Message: "quantity must be at least 1"}
		}
		price := utils.MoneyRound(in.UnitPrice)
		if price.IsNegative() {
			return nil, &ValidationError{Field: "items", Message: "unit price must not be negative"}
		}
		if in.TaxRate != nil && (in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(100))) {
			return nil, &ValidationError{Field: "items", Message: "tax rate must be between 0 and 100"}
		}
		if in.Discount != nil && in.Discount.IsNegative() {
			return nil, &ValidationError{Field: "items", Message: "discount must not be negative"}
		}
		category := in.Category
		if category == "" {
			category = "general"
		}
		items = append(items, models.InvoiceItem{
			ID:        uuid.New(),
			Name:      in.Name,
			Quantity:  qty,
			UnitPrice: price,
			Category:  category,
			TaxRate:   in.TaxRate,
			Discount:  in.Discount,
			Position:  i,
		})
	}
	return items, nil
}

func buildPayment(in PaymentInput, now time.Time) (models.Payment, error) {
	amount := utils.MoneyRound(in.Amount)
	if amount.LessThan(utils.MinPaymentAmount) {
		return models.Payment{}, &ValidationError{Field: "amount", Message: "must be at least 0.01"}
	}
	paidAt := now
	if in.PaidAt != nil {
		paidAt = *in.PaidAt
	}
	return models.Payment{
		ID:        uuid.New(),
		Amount:    amount,
		Method:    in.Method,
		Reference: in.Reference,
		Notes:     in.Notes,
		PaidAt:    paidAt,
	}, nil
}

func sumPayments(payments []models.Payment) decimal.Decimal {
	amounts := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		amounts[i] = p.Amount
	}
	return utils.SumAmounts(amounts)
}
