package models

import (
	"github.com/google/uuid"
)

type Tenant struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Address string    `json:"address,omitempty"`

	PaymentReminders      bool `gorm:"default:true" json:"paymentReminders"`
	WhatsAppNotifications bool `gorm:"default:false" json:"whatsAppNotifications"`
	SMSNotifications      bool `gorm:"default:false" json:"smsNotifications"`

	Users    []User    `gorm:"foreignKey:TenantID" json:"-"`
	Clients  []Client  `gorm:"foreignKey:TenantID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:TenantID" json:"-"`
}
