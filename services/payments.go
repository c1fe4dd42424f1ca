// services/payments.go
package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/models"
)

// AddPayment appends one payment entry to an invoice's ledger.
//
// The overpayment check runs against the balance as it stands before the new
// entry, inside the same transaction that ends with the optimistic version
// update. Two concurrent additions can therefore never both pass the check
// against a stale balance: the loser of the version race gets a
// ConcurrencyConflictError and must retry.
func (s *LedgerService) AddPayment(tenantID, invoiceID uuid.UUID, in PaymentInput) (*models.Invoice, *ClientSummary, error) {
	var clientID string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.get(tx, tenantID, invoiceID, false)
		if err != nil {
			return err
		}

		entry, err := buildPayment(in, time.Now())
		if err != nil {
			return err
		}

		remaining := inv.Remaining()
		if entry.Amount.GreaterThan(remaining) {
			return &OverpaymentError{Remaining: remaining}
		}

		entry.InvoiceID = inv.ID
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		advance := sumPayments(inv.Payments).Add(entry.Amount)
		status := DeriveStatus(inv.TotalAmount, advance.Add(inv.CreditAmount))

		if err := s.applyVersioned(tx, inv, map[string]interface{}{
			"advance_amount": advance,
			"status":         status,
		}); err != nil {
			return err
		}

		clientID = inv.ClientID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().
		Str("invoiceId", invoiceID.String()).
		Str("amount", in.Amount.String()).
		Msg("payment recorded")

	return s.finish(tenantID, invoiceID, clientID)
}

// RemovePayment deletes one payment entry by id and re-derives the advance
// amount and status. Removal is always permitted; only future overpayment is
// guarded against.
func (s *LedgerService) RemovePayment(tenantID, invoiceID, paymentID uuid.UUID) (*models.Invoice, *ClientSummary, error) {
	var clientID string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.get(tx, tenantID, invoiceID, false)
		if err != nil {
			return err
		}

		found := false
		kept := make([]models.Payment, 0, len(inv.Payments))
		for _, p := range inv.Payments {
			if p.ID == paymentID {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			return &NotFoundError{Resource: "payment", ID: paymentID.String()}
		}

		if err := tx.Delete(&models.Payment{}, "id = ? AND invoice_id = ?", paymentID, inv.ID).Error; err != nil {
			return err
		}

		advance := sumPayments(kept)
		status := DeriveStatus(inv.TotalAmount, advance.Add(inv.CreditAmount))

		if err := s.applyVersioned(tx, inv, map[string]interface{}{
			"advance_amount": advance,
			"status":         status,
		}); err != nil {
			return err
		}

		clientID = inv.ClientID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().
		Str("invoiceId", invoiceID.String()).
		Str("paymentId", paymentID.String()).
		Msg("payment removed")

	return s.finish(tenantID, invoiceID, clientID)
}
