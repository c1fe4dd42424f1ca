// services/reconcile.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/models"
)

const reconcileBatchSize = 100

type StatusChange struct {
	InvoiceID uuid.UUID `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
}

type ReconcileReport struct {
	Scanned int            `json:"scanned"`
	Changed int            `json:"changed"`
	Errors  int            `json:"errors"`
	DryRun  bool           `json:"dryRun"`
	Changes []StatusChange `json:"changes"`
}

// Recalculate streams every active invoice of a tenant (optionally one
// client), re-derives the status from the stored monetary state and repairs
// any drift. Each repair is its own independent update, so a crash mid-run
// leaves already-processed invoices reconciled and the rest untouched;
// re-running is always safe and a second run with no intervening mutation
// reports zero changes. A failed single-invoice update is tallied and
// skipped, never fatal: the job's purpose is maximal repair coverage.
func (s *LedgerService) Recalculate(tenantID uuid.UUID, clientID string, dryRun bool) (*ReconcileReport, error) {
	report := &ReconcileReport{DryRun: dryRun, Changes: []StatusChange{}}

	query := s.db.Where("tenant_id = ? AND deleted_at IS NULL", tenantID)
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var batch []models.Invoice
	result := query.FindInBatches(&batch, reconcileBatchSize, func(_ *gorm.DB, _ int) error {
		for i := range batch {
			inv := &batch[i]
			report.Scanned++

			desired := DeriveStatus(inv.TotalAmount, inv.PaidToDate())
			if desired == inv.Status {
				continue
			}

			if dryRun {
				report.Changed++
				report.Changes = append(report.Changes, StatusChange{InvoiceID: inv.ID, From: inv.Status, To: desired})
				continue
			}

			if err := s.applyVersioned(s.db, inv, map[string]interface{}{"status": desired}); err != nil {
				report.Errors++
				s.log.Warn().
					Err(err).
					Str("invoiceId", inv.ID.String()).
					Msg("reconciliation skipped invoice")
				continue
			}
			report.Changed++
			report.Changes = append(report.Changes, StatusChange{InvoiceID: inv.ID, From: inv.Status, To: desired})
		}
		return nil
	})
	if result.Error != nil {
		return nil, result.Error
	}

	s.log.Info().
		Str("tenantId", tenantID.String()).
		Int("scanned", report.Scanned).
		Int("changed", report.Changed).
		Int("errors", report.Errors).
		Bool("dryRun", dryRun).
		Msg("reconciliation run finished")

	return report, nil
}
