package services

import (
	"github.com/shopspring/decimal"

	"github.com/stizirine/booklio-application-sub001/models"
	"github.com/stizirine/booklio-application-sub001/utils"
)

// DeriveStatus maps an invoice's monetary state to its lifecycle status.
//
// Pure and idempotent. Every mutation that touches totalAmount, advanceAmount
// or creditAmount goes through it, and the reconciliation job uses the same
// function to detect drift.
func DeriveStatus(total, paid decimal.Decimal) string {
	remaining := utils.Remaining(total, paid)
	switch {
	case total.IsPositive() && remaining.IsZero():
		return models.StatusPaid
	case paid.IsPositive() && remaining.IsPositive():
		return models.StatusPartial
	default:
		return models.StatusDraft
	}
}
