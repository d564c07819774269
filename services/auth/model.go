package auth

import "time"

type User struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Email     string    `gorm:"column:email;uniqueIndex" json:"email"`
	Name      string    `gorm:"column:name" json:"name"`
	Picture   string    `gorm:"column:picture" json:"picture"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// Session is the payload stored in redis under the bearer token.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	ExpiresAt time.Time `json:"expires_at"`
}
