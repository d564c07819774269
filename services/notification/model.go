package notification

import "time"

type Notification struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;index" json:"user_id"`
	Title     string    `gorm:"column:title" json:"title"`
	Message   string    `gorm:"column:message" json:"message"`
	Type      string    `gorm:"column:type" json:"type"`
	ActionURL string    `gorm:"column:action_url" json:"action_url,omitempty"`
	IsRead    bool      `gorm:"column:is_read" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}
