package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stizirine/booklio-application-sub001/utils"
)

// Client ids keep the legacy directory format: 24 hexadecimal characters.
// Invoices reference clients by this id only; existence is never re-checked
// by the ledger.
type Client struct {
	ID       string    `gorm:"type:char(24);primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenantId"`

	Name  string `gorm:"not null" json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = utils.NewObjectID()
	}
	return
}
