package services_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/models"
	"github.com/stizirine/booklio-application-sub001/services"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) (*services.LedgerService, *gorm.DB) {
	t.Helper()

	// A named shared-cache memory database with a single connection: every
	// transaction sees the same store and writes serialize.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.Client{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
		&models.PaymentReminderLog{},
	))

	return services.NewLedgerService(db), db
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(money(expected)), "expected %s, got %s", expected, actual)
}

func createInput(clientID, total string) services.CreateInvoiceInput {
	return services.CreateInvoiceInput{
		ClientID:    clientID,
		TotalAmount: money(total),
	}
}

var (
	testTenant = uuid.New()
	testClient = "64b1f0c2a8d93e5f7c1b2a3d"
)

// =============================================================================
// CREATE
// =============================================================================

func TestCreate_DefaultsToDraft(t *testing.T) {
	ledger, _ := newTestLedger(t)

	inv, summary, err := ledger.Create(testTenant, createInput(testClient, "50"))
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, inv.Status)
	assert.Equal(t, models.InvoiceKindStandard, inv.Kind)
	assert.Equal(t, models.DefaultCurrency, inv.Currency)
	assertMoney(t, "50", inv.TotalAmount)
	assertMoney(t, "0", inv.AdvanceAmount)
	assertMoney(t, "50", inv.RemainingAmount)

	assert.Equal(t, 1, summary.InvoiceCount)
	assertMoney(t, "50", summary.TotalAmount)
	assertMoney(t, "50", summary.DueAmount)
	require.NotNil(t, summary.LastInvoiceAt)
}

func TestCreate_PaymentsSeedAdvance(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payments = []services.PaymentInput{
		{Amount: money("30"), Method: "cash"},
		{Amount: money("20"), Method: "card"},
	}
	// Payments always win over a manually supplied advance amount
	explicit := money("99")
	in.AdvanceAmount = &explicit

	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	assertMoney(t, "50", inv.AdvanceAmount)
	assertMoney(t, "50", inv.RemainingAmount)
	assert.Equal(t, models.StatusPartial, inv.Status)
	require.Len(t, inv.Payments, 2)
}

func TestCreate_SinglePaymentObject(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("100")}

	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaid, inv.Status)
	assertMoney(t, "0", inv.RemainingAmount)
	require.Len(t, inv.Payments, 1)
	assert.False(t, inv.Payments[0].PaidAt.IsZero())
}

func TestCreate_ExplicitAdvanceWithoutPayments(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	advance := money("40")
	in.AdvanceAmount = &advance

	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	assertMoney(t, "40", inv.AdvanceAmount)
	assert.Equal(t, models.StatusPartial, inv.Status)
	assert.Empty(t, inv.Payments)
}

func TestCreate_CreditCountsTowardStatus(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	credit := money("100")
	in.CreditAmount = &credit

	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaid, inv.Status)
	assertMoney(t, "0", inv.RemainingAmount)
}

func TestCreate_Validation(t *testing.T) {
	ledger, _ := newTestLedger(t)

	tests := []struct {
		name  string
		in    services.CreateInvoiceInput
		field string
	}{
		{"malformed client id", createInput("not-hex", "50"), "clientId"},
		{"short client id", createInput("64b1f0c2a8d93e5f7c1b2a3", "50"), "clientId"},
		{"negative total", createInput(testClient, "-1"), "totalAmount"},
		{
			"unsupported currency",
			func() services.CreateInvoiceInput {
				in := createInput(testClient, "50")
				in.Currency = "JPY"
				return in
			}(),
			"currency",
		},
		{
			"unsupported kind",
			func() services.CreateInvoiceInput {
				in := createInput(testClient, "50")
				in.Kind = "proforma"
				return in
			}(),
			"kind",
		},
		{
			"payment below minimum",
			func() services.CreateInvoiceInput {
				in := createInput(testClient, "50")
				in.Payment = &services.PaymentInput{Amount: money("0.001")}
				return in
			}(),
			"amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ledger.Create(testTenant, tt.in)
			var vErr *services.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestCreate_RejectsOverpaidSeed(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payments = []services.PaymentInput{{Amount: money("60")}, {Amount: money("60")}}

	_, _, err := ledger.Create(testTenant, in)
	var opErr *services.OverpaymentError
	require.ErrorAs(t, err, &opErr)
	assertMoney(t, "100", opErr.Remaining)
}

// =============================================================================
// PAYMENT LEDGER
// =============================================================================

func TestAddPayment_OverpaymentRejected(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("80")}
	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	_, _, err = ledger.AddPayment(testTenant, inv.ID, services.PaymentInput{Amount: money("25")})
	var opErr *services.OverpaymentError
	require.ErrorAs(t, err, &opErr)
	assertMoney(t, "20", opErr.Remaining)

	// The exact remainder is accepted and settles the invoice
	updated, summary, err := ledger.AddPayment(testTenant, inv.ID, services.PaymentInput{Amount: money("20")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)
	assertMoney(t, "100", updated.AdvanceAmount)
	assertMoney(t, "0", updated.RemainingAmount)
	assertMoney(t, "0", summary.DueAmount)
	require.Len(t, updated.Payments, 2)
}

func TestAddPayment_UnknownInvoice(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, _, err := ledger.AddPayment(testTenant, uuid.New(), services.PaymentInput{Amount: money("10")})
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestAddPayment_OtherTenantInvisible(t *testing.T) {
	ledger, _ := newTestLedger(t)

	inv, _, err := ledger.Create(testTenant, createInput(testClient, "100"))
	require.NoError(t, err)

	// Same invoice id, wrong tenant: indistinguishable from missing
	_, _, err = ledger.AddPayment(uuid.New(), inv.ID, services.PaymentInput{Amount: money("10")})
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestRemovePayment_RederivesState(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("100")}
	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)
	require.Equal(t, models.StatusPaid, inv.Status)
	require.Len(t, inv.Payments, 1)

	updated, summary, err := ledger.RemovePayment(testTenant, inv.ID, inv.Payments[0].ID)
	require.NoError(t, err)

	assertMoney(t, "0", updated.AdvanceAmount)
	assert.Equal(t, models.StatusDraft, updated.Status)
	assert.Empty(t, updated.Payments)
	assertMoney(t, "100", summary.DueAmount)
}

func TestRemovePayment_UnknownID(t *testing.T) {
	ledger, _ := newTestLedger(t)

	inv, _, err := ledger.Create(testTenant, createInput(testClient, "100"))
	require.NoError(t, err)

	_, _, err = ledger.RemovePayment(testTenant, inv.ID, uuid.New())
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "payment", nfErr.Resource)
}

func TestConcurrentAddPayments_OnlyOneSucceeds(t *testing.T) {
	ledger, _ := newTestLedger(t)

	inv, _, err := ledger.Create(testTenant, createInput(testClient, "100"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, results[i] = ledger.AddPayment(testTenant, inv.ID, services.PaymentInput{Amount: money("60")})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		var opErr *services.OverpaymentError
		var ccErr *services.ConcurrencyConflictError
		assert.True(t, errors.As(err, &opErr) || errors.As(err, &ccErr),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes, "exactly one of two 60s may land on a 100 invoice")

	final, err := ledger.Get(testTenant, inv.ID, false)
	require.NoError(t, err)
	assertMoney(t, "60", final.AdvanceAmount)
	assert.Equal(t, models.StatusPartial, final.Status)
}

// =============================================================================
// PATCH
// =============================================================================

func TestPatch_TotalChangeRederivesStatus(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("50")}
	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)
	require.Equal(t, models.StatusPartial, inv.Status)

	newTotal := money("50")
	updated, summary, err := ledger.Patch(testTenant, inv.ID, services.PatchInvoiceInput{TotalAmount: &newTotal})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaid, updated.Status)
	assertMoney(t, "0", updated.RemainingAmount)
	assertMoney(t, "0", summary.DueAmount)
}

func TestPatch_AdvanceRejectedWhenPaymentsExist(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("50")}
	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	advance := money("90")
	_, _, err = ledger.Patch(testTenant, inv.ID, services.PatchInvoiceInput{AdvanceAmount: &advance})
	var vErr *services.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "advanceAmount", vErr.Field)
}

func TestPatch_ReplacesItemsWithoutTouchingTotal(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "200")
	in.Items = []services.ItemInput{{Name: "Frame", UnitPrice: money("120")}}
	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)

	// Line items are descriptive; the manually set total stands
	items := []services.ItemInput{
		{Name: "Single-vision lens", Quantity: 2, UnitPrice: money("45"), Category: "lenses"},
		{Name: "Coating", UnitPrice: money("15"), Category: "lenses"},
	}
	updated, _, err := ledger.Patch(testTenant, inv.ID, services.PatchInvoiceInput{Items: &items})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.Equal(t, "Single-vision lens", updated.Items[0].Name)
	assertMoney(t, "200", updated.TotalAmount)
}

func TestPatch_ClientMoveRefreshesNewClientSummary(t *testing.T) {
	ledger, _ := newTestLedger(t)

	otherClient := "a1b2c3d4e5f60718293a4b5c"
	inv, _, err := ledger.Create(testTenant, createInput(testClient, "80"))
	require.NoError(t, err)

	updated, summary, err := ledger.Patch(testTenant, inv.ID, services.PatchInvoiceInput{ClientID: &otherClient})
	require.NoError(t, err)

	assert.Equal(t, otherClient, updated.ClientID)
	assert.Equal(t, 1, summary.InvoiceCount)
	assertMoney(t, "80", summary.TotalAmount)

	old, err := ledger.ClientSummary(testTenant, testClient)
	require.NoError(t, err)
	assert.Equal(t, 0, old.InvoiceCount)
}

// =============================================================================
// DELETE & SUMMARY
// =============================================================================

func TestSoftDelete_ExcludedFromSummary(t *testing.T) {
	ledger, _ := newTestLedger(t)

	inv, summary, err := ledger.Create(testTenant, createInput(testClient, "50"))
	require.NoError(t, err)
	require.Equal(t, 1, summary.InvoiceCount)

	result, err := ledger.Delete(testTenant, inv.ID, false)
	require.NoError(t, err)

	assert.Equal(t, testClient, result.ClientID)
	assert.False(t, result.HardDeleted)
	assertMoney(t, "0", result.Summary.TotalAmount)
	assertMoney(t, "0", result.Summary.DueAmount)
	assert.Equal(t, 0, result.Summary.InvoiceCount)
	assert.Nil(t, result.Summary.LastInvoiceAt)

	// Gone from the default read path, still reachable when targeted
	_, err = ledger.Get(testTenant, inv.ID, false)
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)

	deleted, err := ledger.Get(testTenant, inv.ID, true)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
}

func TestHardDelete_RemovesRow(t *testing.T) {
	ledger, db := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("100")}
	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	result, err := ledger.Delete(testTenant, inv.ID, true)
	require.NoError(t, err)
	assert.True(t, result.HardDeleted)
	assert.Equal(t, testClient, result.ClientID)

	_, err = ledger.Get(testTenant, inv.ID, true)
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)

	var orphans int64
	db.Model(&models.Payment{}).Where("invoice_id = ?", inv.ID).Count(&orphans)
	assert.Zero(t, orphans)
}

func TestHardDelete_TargetsSoftDeletedInvoice(t *testing.T) {
	ledger, _ := newTestLedger(t)

	inv, _, err := ledger.Create(testTenant, createInput(testClient, "50"))
	require.NoError(t, err)

	_, err = ledger.Delete(testTenant, inv.ID, false)
	require.NoError(t, err)

	// Soft-deleting again misses; hard delete still finds it
	_, err = ledger.Delete(testTenant, inv.ID, false)
	var nfErr *services.NotFoundError
	require.ErrorAs(t, err, &nfErr)

	result, err := ledger.Delete(testTenant, inv.ID, true)
	require.NoError(t, err)
	assert.True(t, result.HardDeleted)
}

func TestClientSummary_FoldsActiveInvoices(t *testing.T) {
	ledger, _ := newTestLedger(t)

	first, _, err := ledger.Create(testTenant, createInput(testClient, "100"))
	require.NoError(t, err)

	in := createInput(testClient, "60")
	in.Payment = &services.PaymentInput{Amount: money("20")}
	_, _, err = ledger.Create(testTenant, in)
	require.NoError(t, err)

	// A soft-deleted invoice drops out of the fold entirely
	third, _, err := ledger.Create(testTenant, createInput(testClient, "999"))
	require.NoError(t, err)
	_, err = ledger.Delete(testTenant, third.ID, false)
	require.NoError(t, err)

	summary, err := ledger.ClientSummary(testTenant, testClient)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.InvoiceCount)
	assertMoney(t, "160", summary.TotalAmount)
	assertMoney(t, "140", summary.DueAmount)
	require.NotNil(t, summary.LastInvoiceAt)
	assert.False(t, summary.LastInvoiceAt.Before(first.CreatedAt))
}

func TestClientSummary_EmptyClient(t *testing.T) {
	ledger, _ := newTestLedger(t)

	summary, err := ledger.ClientSummary(testTenant, "ffffffffffffffffffffffff")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.InvoiceCount)
	assertMoney(t, "0", summary.TotalAmount)
	assertMoney(t, "0", summary.DueAmount)
	assert.Nil(t, summary.LastInvoiceAt)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func corruptStatus(t *testing.T, db *gorm.DB, id uuid.UUID, status string) {
	t.Helper()
	require.NoError(t, db.Model(&models.Invoice{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error)
}

func TestRecalculate_RepairsDrift(t *testing.T) {
	ledger, db := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("100")}
	paid, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	clean, _, err := ledger.Create(testTenant, createInput(testClient, "40"))
	require.NoError(t, err)

	corruptStatus(t, db, paid.ID, models.StatusDraft)

	// Dry run reports the drift without touching the store
	report, err := ledger.Recalculate(testTenant, "", true)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Changed)
	assert.True(t, report.DryRun)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, paid.ID, report.Changes[0].InvoiceID)
	assert.Equal(t, models.StatusDraft, report.Changes[0].From)
	assert.Equal(t, models.StatusPaid, report.Changes[0].To)

	still, err := ledger.Get(testTenant, paid.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, still.Status)

	// Real run persists the fix
	report, err = ledger.Recalculate(testTenant, "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)
	assert.Zero(t, report.Errors)

	fixed, err := ledger.Get(testTenant, paid.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, fixed.Status)

	untouched, err := ledger.Get(testTenant, clean.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, untouched.Status)
}

func TestRecalculate_Idempotent(t *testing.T) {
	ledger, db := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("50")}
	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	corruptStatus(t, db, inv.ID, models.StatusPaid)

	report, err := ledger.Recalculate(testTenant, "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)

	report, err = ledger.Recalculate(testTenant, "", false)
	require.NoError(t, err)
	assert.Zero(t, report.Changed)
	assert.Equal(t, 1, report.Scanned)
}

func TestRecalculate_ClientFilter(t *testing.T) {
	ledger, db := newTestLedger(t)

	otherClient := "a1b2c3d4e5f60718293a4b5c"

	mine, _, err := ledger.Create(testTenant, createInput(testClient, "100"))
	require.NoError(t, err)
	theirs, _, err := ledger.Create(testTenant, createInput(otherClient, "100"))
	require.NoError(t, err)

	corruptStatus(t, db, mine.ID, models.StatusPaid)
	corruptStatus(t, db, theirs.ID, models.StatusPaid)

	report, err := ledger.Recalculate(testTenant, testClient, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Changed)

	// The other client's drift is untouched until its own run
	other, err := ledger.Get(testTenant, theirs.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, other.Status)
}

// =============================================================================
// LIST & EXPORT
// =============================================================================

func TestList_FiltersAndPaginates(t *testing.T) {
	ledger, db := newTestLedger(t)

	require.NoError(t, db.Create(&models.Client{
		ID:       testClient,
		TenantID: testTenant,
		Name:     "Ada Martin",
		Email:    "ada@example.com",
		IsActive: true,
	}).Error)

	for i := 0; i < 3; i++ {
		_, _, err := ledger.Create(testTenant, createInput(testClient, "10"))
		require.NoError(t, err)
	}
	in := createInput(testClient, "25")
	in.Kind = models.InvoiceKindClientBilled
	_, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	page, err := ledger.List(testTenant, services.ListInvoicesInput{Limit: 2, WithClient: true})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.Invoices, 2)
	require.Contains(t, page.Clients, testClient)
	assert.Equal(t, "Ada Martin", page.Clients[testClient].Name)

	billed, err := ledger.List(testTenant, services.ListInvoicesInput{Kind: models.InvoiceKindClientBilled})
	require.NoError(t, err)
	assert.Equal(t, int64(1), billed.Total)

	_, err = ledger.List(testTenant, services.ListInvoicesInput{Kind: "bogus"})
	var vErr *services.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestList_DeletedVisibilityFlags(t *testing.T) {
	ledger, _ := newTestLedger(t)

	kept, _, err := ledger.Create(testTenant, createInput(testClient, "10"))
	require.NoError(t, err)
	gone, _, err := ledger.Create(testTenant, createInput(testClient, "20"))
	require.NoError(t, err)
	_, err = ledger.Delete(testTenant, gone.ID, false)
	require.NoError(t, err)

	active, err := ledger.List(testTenant, services.ListInvoicesInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), active.Total)
	assert.Equal(t, kept.ID, active.Invoices[0].ID)

	all, err := ledger.List(testTenant, services.ListInvoicesInput{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	deleted, err := ledger.List(testTenant, services.ListInvoicesInput{OnlyDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.Total)
	assert.Equal(t, gone.ID, deleted.Invoices[0].ID)
}

func TestExportCSV(t *testing.T) {
	ledger, _ := newTestLedger(t)

	in := createInput(testClient, "100")
	in.Payment = &services.PaymentInput{Amount: money("40")}
	inv, _, err := ledger.Create(testTenant, in)
	require.NoError(t, err)

	data, err := ledger.ExportCSV(testTenant, services.ListInvoicesInput{})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "id,clientId,kind,currency,totalAmount")
	assert.Contains(t, out, inv.ID.String())
	assert.Contains(t, out, "60.00") // remaining
	assert.Contains(t, out, models.StatusPartial)
}

// =============================================================================
// TENANT ISOLATION
// =============================================================================

func TestTenantIsolation(t *testing.T) {
	ledger, _ := newTestLedger(t)

	otherTenant := uuid.New()
	_, _, err := ledger.Create(testTenant, createInput(testClient, "100"))
	require.NoError(t, err)

	list, err := ledger.List(otherTenant, services.ListInvoicesInput{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	summary, err := ledger.ClientSummary(otherTenant, testClient)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.InvoiceCount)
}
