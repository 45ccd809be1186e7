package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Any status may follow any other; the enum check in the
// service layer is the only guard.
const (
	StatusPending = "PENDING"
	StatusReady   = "READY"
	StatusPaid    = "PAID"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusReady, StatusPaid:
		return true
	}
	return false
}

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TableNumber string `gorm:"type:varchar(10);not null;index" json:"table_number"`
	Status      string `gorm:"type:varchar(12);not null;default:'PENDING';index" json:"status"`
	// PaidAt is stamped on every transition into PAID. Revenue attribution
	// uses UpdatedAt unless REVENUE_USE_PAID_AT is set.
	PaidAt    *time.Time  `json:"paid_at,omitempty"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// TotalPrice sums price*quantity over the current items. Computed on
// demand, never stored on the order row.
func (o *Order) TotalPrice() Amount {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].TotalPrice())
	}
	return NewAmount(total)
}
