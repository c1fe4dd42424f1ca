// services/reminder_service.go
package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/models"
	"github.com/stizirine/booklio-application-sub001/utils"
)

// ReminderService nudges clients with partially paid invoices that have gone
// stale. It only reads the ledger; the open balance it quotes is derived the
// same way as everywhere else.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	log    zerolog.Logger
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		log: log.With().Str("component", "reminders").Logger(),
	}
}

// reminderAfterDays is how long a partial invoice may sit untouched before a
// reminder goes out. Overridable via REMINDER_AFTER_DAYS.
func reminderAfterDays() int {
	if env := os.Getenv("REMINDER_AFTER_DAYS"); env != "" {
		if d, err := strconv.Atoi(env); err == nil && d > 0 {
			return d
		}
	}
	return 7
}

func (s *ReminderService) SendDailyReminders() {
	s.log.Info().Msg("starting daily payment reminder processing")

	var tenants []models.Tenant
	if err := s.db.Find(&tenants, "payment_reminders = ?", true).Error; err != nil {
		s.log.Error().Err(err).Msg("failed to fetch tenants")
		return
	}

	for _, tenant := range tenants {
		s.ProcessTenantReminders(tenant)
	}

	s.log.Info().Msg("daily payment reminder processing completed")
}

func (s *ReminderService) ProcessTenantReminders(tenant models.Tenant) {
	cutoff := utils.BeginningOfDay(time.Now().AddDate(0, 0, -reminderAfterDays()))

	var invoices []models.Invoice
	if err := s.db.
		Where("tenant_id = ? AND status = ? AND deleted_at IS NULL AND updated_at < ?",
			tenant.ID, models.StatusPartial, cutoff).
		Find(&invoices).Error; err != nil {
		s.log.Error().Err(err).Str("tenantId", tenant.ID.String()).Msg("failed to fetch stale partial invoices")
		return
	}

	for i := range invoices {
		s.sendReminder(tenant, &invoices[i])
	}
}

func (s *ReminderService) sendReminder(tenant models.Tenant, inv *models.Invoice) {
	// Skip invoices already reminded within the current window
	var recent int64
	since := time.Now().AddDate(0, 0, -reminderAfterDays())
	if err := s.db.Model(&models.PaymentReminderLog{}).
		Where("invoice_id = ? AND status = ? AND sent_at > ?", inv.ID, "sent", since).
		Count(&recent).Error; err == nil && recent > 0 {
		return
	}

	var client models.Client
	if err := s.db.Where("tenant_id = ? AND id = ?", tenant.ID, inv.ClientID).
		First(&client).Error; err != nil || client.Phone == "" {
		return
	}

	message := fmt.Sprintf(
		"Hi %s, a friendly reminder from %s: your invoice has an open balance of %s %s. Thank you!",
		client.Name, tenant.Name, inv.Remaining().StringFixed(2), inv.Currency)

	// WhatsApp for E.164 numbers when the tenant enabled it, SMS otherwise
	channel := "sms"
	to := client.Phone
	if tenant.WhatsAppNotifications && strings.HasPrefix(client.Phone, "+") {
		to = "whatsapp:" + client.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		s.log.Warn().Err(err).Str("invoiceId", inv.ID.String()).Msg("failed to send payment reminder")
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		s.log.Info().Str("invoiceId", inv.ID.String()).Str("sid", *resp.Sid).Msg("payment reminder sent")
	} else {
		s.log.Info().Str("invoiceId", inv.ID.String()).Msg("payment reminder sent, no SID returned")
	}

	reminderLog := models.PaymentReminderLog{
		TenantID:     tenant.ID,
		ClientID:     client.ID,
		InvoiceID:    inv.ID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		s.log.Error().Err(err).Str("invoiceId", inv.ID.String()).Msg("failed to log payment reminder")
	}
}
