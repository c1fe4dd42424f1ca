// controllers/invoice.go
package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stizirine/booklio-application-sub001/config"
	"github.com/stizirine/booklio-application-sub001/services"
	"github.com/stizirine/booklio-application-sub001/utils"
)

func ledger() *services.LedgerService {
	return services.NewLedgerService(config.DB)
}

// CreateInvoice creates a new invoice for the tenant
func CreateInvoice(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	var input services.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, summary, err := ledger().Create(tenantUUID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invoice":       invoice,
		"clientSummary": summary,
	})
}

// GetInvoices lists the tenant's invoices with filters and pagination.
// format=csv renders the whole selection as a flat export instead.
func GetInvoices(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	input := services.ListInvoicesInput{
		ClientID:       c.Query("clientId"),
		Kind:           c.Query("kind"),
		IncludeDeleted: c.Query("includeDeleted") == "true",
		OnlyDeleted:    c.Query("onlyDeleted") == "true",
		WithClient:     c.DefaultQuery("withClient", "true") == "true",
		Page:           page,
		Limit:          limit,
	}

	if input.ClientID != "" && !utils.ValidateClientID(input.ClientID) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	if c.Query("format") == "csv" {
		data, err := ledger().ExportCSV(tenantUUID, input)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="invoices.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	result, err := ledger().List(tenantUUID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	svc := ledger()
	includeDeleted := c.Query("includeDeleted") == "true"

	invoice, err := svc.Get(tenantUUID, invoiceUUID, includeDeleted)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{"invoice": invoice}
	if c.DefaultQuery("withClient", "true") == "true" {
		snippet, err := svc.ClientSnippet(tenantUUID, invoice.ClientID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if snippet != nil {
			response["client"] = snippet
		}
	}

	c.JSON(http.StatusOK, response)
}

// PatchInvoice applies a partial update. Status and payments are not writable
// through this path.
func PatchInvoice(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input services.PatchInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, summary, err := ledger().Patch(tenantUUID, invoiceUUID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":       invoice,
		"clientSummary": summary,
	})
}

// DeleteInvoice soft deletes by default; ?hard=true removes the row entirely
func DeleteInvoice(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	result, err := ledger().Delete(tenantUUID, invoiceUUID, c.Query("hard") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddInvoicePayment appends a payment entry to the invoice's ledger
func AddInvoicePayment(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input services.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, summary, err := ledger().AddPayment(tenantUUID, invoiceUUID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":       invoice,
		"clientSummary": summary,
	})
}

// RemoveInvoicePayment removes a payment entry by id
func RemoveInvoicePayment(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	paymentUUID, err := uuid.Parse(c.Param("paymentId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID format")
		return
	}

	invoice, summary, err := ledger().RemovePayment(tenantUUID, invoiceUUID, paymentUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":       invoice,
		"clientSummary": summary,
	})
}

// RecalculateInput triggers a reconciliation run over the tenant's invoices
type RecalculateInput struct {
	ClientID string `json:"clientId"`
	DryRun   bool   `json:"dryRun"`
}

func RecalculateInvoices(c *gin.Context) {
	tenantUUID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	// An empty body means a full-tenant, non-dry run
	var input RecalculateInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ClientID != "" && !utils.ValidateClientID(input.ClientID) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	report, err := ledger().Recalculate(tenantUUID, input.ClientID, input.DryRun)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
