// services/scheduler.go
package services

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/models"
)

// Scheduler runs the periodic jobs: the nightly status reconciliation sweep
// and the daily payment reminders.
type Scheduler struct {
	db        *gorm.DB
	ledger    *LedgerService
	reminders *ReminderService
	cron      *cron.Cron
	log       zerolog.Logger
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		db:        db,
		ledger:    NewLedgerService(db),
		reminders: NewReminderService(db),
		cron:      cron.New(),
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() {
	// Reconcile at 3 AM, remind at 9 AM
	s.cron.AddFunc("0 3 * * *", s.ReconcileAllTenants)
	s.cron.AddFunc("0 9 * * *", s.reminders.SendDailyReminders)

	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// ReconcileAllTenants repairs status drift across every tenant. A failing
// tenant is logged and skipped so one bad tenant cannot stall the sweep.
func (s *Scheduler) ReconcileAllTenants() {
	var tenants []models.Tenant
	if err := s.db.Find(&tenants).Error; err != nil {
		s.log.Error().Err(err).Msg("failed to fetch tenants for reconciliation")
		return
	}

	for _, tenant := range tenants {
		report, err := s.ledger.Recalculate(tenant.ID, "", false)
		if err != nil {
			s.log.Error().Err(err).Str("tenantId", tenant.ID.String()).Msg("tenant reconciliation failed")
			continue
		}
		if report.Changed > 0 || report.Errors > 0 {
			s.log.Info().
				Str("tenantId", tenant.ID.String()).
				Int("scanned", report.Scanned).
				Int("changed", report.Changed).
				Int("errors", report.Errors).
				Msg("tenant reconciled")
		}
	}
}
