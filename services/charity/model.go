package charity

import "time"

// Revenue split phases. Until lifetime platform revenue crosses the
// phase 1 threshold, 2% of gift and host flows routes to charity; past
// it the published charity share rises to 45%.
const (
	Phase1Threshold int64 = 10_000_000_000
	Phase1Percent         = 2
	Phase2Percent         = 45
)

type Contribution struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;index" json:"user_id"`
	Source    string    `gorm:"column:source" json:"source"`
	Amount    int64     `gorm:"column:amount" json:"amount"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

// CharityPool is a singleton aggregate row.
type CharityPool struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	TotalBalance     int64     `gorm:"column:total_balance" json:"total_balance"`
	TotalReceived    int64     `gorm:"column:total_received" json:"total_received"`
	TotalDistributed int64     `gorm:"column:total_distributed" json:"total_distributed"`
	LivesHelped      int64     `gorm:"column:lives_helped" json:"lives_helped"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// PlatformStat is a singleton revenue counter feeding the phase switch.
type PlatformStat struct {
	ID                  string    `gorm:"column:id;primaryKey" json:"id"`
	TotalRevenue        int64     `gorm:"column:total_revenue" json:"total_revenue"`
	TotalStarsExchanged int64     `gorm:"column:total_stars_exchanged" json:"total_stars_exchanged"`
	TotalExchangeFees   int64     `gorm:"column:total_exchange_fees" json:"total_exchange_fees"`
	UpdatedAt           time.Time `gorm:"column:updated_at" json:"updated_at"`
}

const singletonID = "main"
