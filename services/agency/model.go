package agency

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission brackets keyed on trailing-30-day earnings. Upper bounds
// are inclusive, so exactly 2,000,000 still pays 4%.
type Bracket struct {
	Min  int64 `json:"min"`
	Max  int64 `json:"max"`
	Rate int64 `json:"rate"`
}

var Brackets = []Bracket{
	{Min: 0, Max: 2_000_000, Rate: 4},
	{Min: 2_000_001, Max: 10_000_000, Rate: 8},
	{Min: 10_000_001, Max: 50_000_000, Rate: 12},
	{Min: 50_000_001, Max: 150_000_000, Rate: 16},
	{Min: 150_000_001, Max: 999_999_999_999, Rate: 20},
}

// BracketFor returns the bracket covering the earnings value. Values
// beyond the table fall into the top bracket.
func BracketFor(earnings int64) Bracket {
	for _, b := range Brackets {
		if earnings >= b.Min && earnings <= b.Max {
			return b
		}
	}
	return Brackets[len(Brackets)-1]
}

// CommissionOf computes rate% of amount, truncated toward zero.
func CommissionOf(amount int64, rate int64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(rate)).
		Div(decimal.NewFromInt(100)).
		IntPart()
}

type AgentLevel struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	Rate      int64  `json:"commission_rate"`
	Threshold int64  `json:"monthly_threshold"`
}

var AgentLevels = []AgentLevel{
	{Level: 0, Name: "Member", Rate: 0, Threshold: 0},
	{Level: 1, Name: "Agent Level 1", Rate: 4, Threshold: 0},
	{Level: 2, Name: "Agent Level 2", Rate: 8, Threshold: 2_000_000},
	{Level: 3, Name: "Agent Level 3", Rate: 12, Threshold: 10_000_000},
	{Level: 4, Name: "Agent Level 4", Rate: 16, Threshold: 50_000_000},
	{Level: 5, Name: "Agent Level 5", Rate: 20, Threshold: 150_000_000},
}

// AgentLevelFor scans levels descending and returns the first whose
// threshold the earnings meet.
func AgentLevelFor(earnings int64) AgentLevel {
	for i := len(AgentLevels) - 1; i >= 0; i-- {
		if earnings >= AgentLevels[i].Threshold {
			return AgentLevels[i]
		}
	}
	return AgentLevels[0]
}

// InactiveAfterDays marks agents inactive after a week without activity.
const InactiveAfterDays = 7

type AgencyStatus struct {
	ID                    string    `gorm:"column:id;primaryKey" json:"id"`
	UserID                string    `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	ReferralCode          string    `gorm:"column:referral_code;uniqueIndex" json:"referral_code"`
	AgencyLevel           int       `gorm:"column:agency_level" json:"agency_level"`
	TotalReferrals        int64     `gorm:"column:total_referrals" json:"total_referrals"`
	ActiveReferrals       int64     `gorm:"column:active_referrals" json:"active_referrals"`
	TotalCommissionEarned int64     `gorm:"column:total_commission_earned" json:"total_commission_earned"`
	Last30DaysEarnings    int64     `gorm:"column:last_30_days_earnings" json:"last_30_days_earnings"`
	LastActiveAt          time.Time `gorm:"column:last_active_at" json:"last_active_at"`
	IsBanned              bool      `gorm:"column:is_banned" json:"is_banned"`
	CreatedAt             time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at" json:"updated_at"`
}

type Referral struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	ReferrerID string    `gorm:"column:referrer_id;index" json:"referrer_id"`
	ReferredID string    `gorm:"column:referred_id;uniqueIndex" json:"referred_id"`
	Status     string    `gorm:"column:status" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// Commission is one paid commission event, credited to UserID for a
// deposit made by FromUserID.
type Commission struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	UserID     string    `gorm:"column:user_id;index" json:"user_id"`
	FromUserID string    `gorm:"column:from_user_id;index" json:"from_user_id"`
	BaseAmount int64     `gorm:"column:base_amount" json:"base_amount"`
	Rate       int64     `gorm:"column:rate" json:"rate"`
	Amount     int64     `gorm:"column:amount" json:"amount"`
	CreatedAt  time.Time `gorm:"column:created_at;index" json:"created_at"`
}
