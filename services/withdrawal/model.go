package withdrawal

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MinStarsRequired   int64 = 100_000
	ProcessingDays           = 3
	VIPProcessingDays        = 1
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
	StatusCancelled  = "cancelled"
)

const (
	MethodBank = "bank"
	MethodUPI  = "upi"
)

type PaymentMethod struct {
	ID         string         `gorm:"column:id;primaryKey" json:"method_id"`
	UserID     string         `gorm:"column:user_id;index" json:"user_id"`
	MethodType string         `gorm:"column:method_type" json:"method_type"`
	Details    datatypes.JSON `gorm:"column:details" json:"details"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
}

type Withdrawal struct {
	ID                  string         `gorm:"column:id;primaryKey" json:"withdrawal_id"`
	Code                string         `gorm:"column:code" json:"code"`
	UserID              string         `gorm:"column:user_id;index" json:"user_id"`
	Amount              int64          `gorm:"column:amount" json:"amount"`
	Status              string         `gorm:"column:status;index" json:"status"`
	PaymentMethodID     string         `gorm:"column:payment_method_id" json:"payment_method_id"`
	PaymentMethodType   string         `gorm:"column:payment_method_type" json:"payment_method_type"`
	PaymentDetails      datatypes.JSON `gorm:"column:payment_details" json:"payment_details"`
	TransactionID       string         `gorm:"column:transaction_id" json:"transaction_id"`
	IsVIP               bool           `gorm:"column:is_vip" json:"is_vip"`
	FaceVerified        bool           `gorm:"column:face_verified" json:"face_verified"`
	FaceImageObject     string         `gorm:"column:face_image_object" json:"-"`
	EstimatedCompletion time.Time      `gorm:"column:estimated_completion" json:"estimated_completion"`
	CreatedAt           time.Time      `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"column:updated_at" json:"updated_at"`
}
