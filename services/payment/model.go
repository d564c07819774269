package payment

import "time"

const LinkTTL = 30 * time.Minute

const (
	StatusCreated   = "created"
	StatusPaid      = "paid"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

type PaymentLink struct {
	ID            string     `gorm:"column:id;primaryKey" json:"payment_id"`
	Code          string     `gorm:"column:code;uniqueIndex" json:"code"`
	UserID        string     `gorm:"column:user_id;index" json:"user_id"`
	Amount        int64      `gorm:"column:amount" json:"amount"`
	Status        string     `gorm:"column:status;index" json:"status"`
	LinkURL       string     `gorm:"column:link_url" json:"link_url"`
	TransactionID string     `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	ExpiresAt     time.Time  `gorm:"column:expires_at" json:"expires_at"`
	PaidAt        *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (PaymentLink) TableName() string { return "payment_links" }
