package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/stizirine/booklio-application-sub001/models"
	"github.com/stizirine/booklio-application-sub001/services"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  string
	}{
		{"fully covered", "100", "100", models.StatusPaid},
		{"half covered", "100", "50", models.StatusPartial},
		{"nothing paid", "100", "0", models.StatusDraft},
		{"zero invoice", "0", "0", models.StatusDraft},
		{"zero total with credit", "0", "50", models.StatusDraft},
		{"over-covered", "100", "150", models.StatusPaid},
		{"cent remaining", "100", "99.99", models.StatusPartial},
		{"cent paid", "100", "0.01", models.StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.DeriveStatus(money(tt.total), money(tt.paid))
			assert.Equal(t, tt.want, got)

			// Pure function: same inputs, same result
			assert.Equal(t, got, services.DeriveStatus(money(tt.total), money(tt.paid)))
		})
	}
}
