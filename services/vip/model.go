package vip

import "time"

// VIPLevel is a catalog row, fixed at build time.
type VIPLevel struct {
	Level           int      `json:"level"`
	Name            string   `json:"name"`
	MinRecharge     int64    `json:"min_recharge"`
	MonthlyFee      int64    `json:"monthly_fee"`
	Benefits        []string `json:"benefits"`
	WithdrawalDays  int      `json:"withdrawal_days"`
	DailyRewardMult float64  `json:"daily_reward_multiplier"`
}

// Levels is ordered by level ascending. Level 0 is the free tier.
var Levels = []VIPLevel{
	{Level: 0, Name: "Basic", MinRecharge: 0, MonthlyFee: 0, WithdrawalDays: 3, DailyRewardMult: 1.0,
		Benefits: []string{"Standard rewards"}},
	{Level: 1, Name: "Bronze", MinRecharge: 500, MonthlyFee: 99, WithdrawalDays: 1, DailyRewardMult: 1.1,
		Benefits: []string{"Faster withdrawals", "Bronze badge"}},
	{Level: 2, Name: "Silver", MinRecharge: 5000, MonthlyFee: 299, WithdrawalDays: 1, DailyRewardMult: 1.2,
		Benefits: []string{"Faster withdrawals", "Silver badge", "Priority support"}},
	{Level: 3, Name: "Gold", MinRecharge: 5000, MonthlyFee: 599, WithdrawalDays: 1, DailyRewardMult: 1.5,
		Benefits: []string{"Faster withdrawals", "Gold badge", "Priority support", "Exclusive gifts"}},
	{Level: 4, Name: "Platinum", MinRecharge: 15000, MonthlyFee: 999, WithdrawalDays: 1, DailyRewardMult: 2.0,
		Benefits: []string{"Faster withdrawals", "Platinum badge", "Dedicated support", "Exclusive gifts"}},
	{Level: 5, Name: "Diamond", MinRecharge: 50000, MonthlyFee: 1999, WithdrawalDays: 1, DailyRewardMult: 3.0,
		Benefits: []string{"Instant support", "Diamond badge", "All exclusive perks"}},
}

// EligibleLevel returns the highest level whose recharge threshold the
// total meets.
func EligibleLevel(totalRecharged int64) int {
	level := 0
	for _, l := range Levels {
		if totalRecharged >= l.MinRecharge {
			level = l.Level
		}
	}
	return level
}

func LevelByNumber(level int) (VIPLevel, bool) {
	for _, l := range Levels {
		if l.Level == level {
			return l, true
		}
	}
	return VIPLevel{}, false
}

type VIPStatus struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id"`
	UserID         string     `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	Level          int        `gorm:"column:level" json:"level"`
	TotalRecharged int64      `gorm:"column:total_recharged" json:"total_recharged"`
	ExpiresAt      *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated_at"`
}
