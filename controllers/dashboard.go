// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/stizirine/booklio-application-sub001/config"
	"github.com/stizirine/booklio-application-sub001/models"
)

type DashboardOverview struct {
	TotalClients    int64            `json:"totalClients"`
	TotalInvoices   int64            `json:"totalInvoices"`
	InvoicesByState map[string]int64 `json:"invoicesByStatus"`
	OutstandingDue  decimal.Decimal  `json:"outstandingDue"`
	MonthlyBilled   decimal.Decimal  `json:"monthlyBilled"`
	RecentInvoices  []models.Invoice `json:"recentInvoices"`
}

// GetDashboardOverview summarizes the tenant's ledger. The outstanding total
// is folded from the invoices themselves, same as the per-client summary.
func GetDashboardOverview(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	overview := DashboardOverview{
		InvoicesByState: map[string]int64{},
		OutstandingDue:  decimal.Zero,
		MonthlyBilled:   decimal.Zero,
	}

	config.DB.Model(&models.Client{}).
		Where("tenant_id = ? AND is_active = ?", tenantUUID, true).
		Count(&overview.TotalClients)

	config.DB.Model(&models.Invoice{}).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantUUID).
		Count(&overview.TotalInvoices)

	for _, status := range []string{models.StatusDraft, models.StatusPartial, models.StatusPaid} {
		var count int64
		config.DB.Model(&models.Invoice{}).
			Where("tenant_id = ? AND status = ? AND deleted_at IS NULL", tenantUUID, status).
			Count(&count)
		overview.InvoicesByState[status] = count
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var active []models.Invoice
	if err := config.DB.
		Where("tenant_id = ? AND deleted_at IS NULL", tenantUUID).
		Find(&active).Error; err == nil {
		for i := range active {
			inv := &active[i]
			overview.OutstandingDue = overview.OutstandingDue.Add(inv.Remaining())
			if !inv.CreatedAt.Before(firstOfMonth) {
				overview.MonthlyBilled = overview.MonthlyBilled.Add(inv.TotalAmount)
			}
		}
	}

	config.DB.
		Where("tenant_id = ? AND deleted_at IS NULL", tenantUUID).
		Order("created_at DESC").
		Limit(5).
		Find(&overview.RecentInvoices)

	c.JSON(http.StatusOK, overview)
}
