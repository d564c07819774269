package leaderboard

import "time"

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	TopModelsLimit = 150
)

// Prize tables by rank for the recurring payouts.
var (
	DailyPrizes = map[int]int64{1: 500, 2: 300, 3: 200}

	// ranks 4-10 share the same amount
	WeeklyPrizes  = rankedPrizes(5000, 3000, 2000, 1000)
	MonthlyPrizes = rankedPrizes(5000, 3000, 2000, 500)
)

func rankedPrizes(top1, top2, top3, top4to10 int64) map[int]int64 {
	prizes := map[int]int64{1: top1, 2: top2, 3: top3}
	for rank := 4; rank <= 10; rank++ {
		prizes[rank] = top4to10
	}
	return prizes
}

// MonthlyVideoPrize is the physical prize tier for the monthly video
// leaderboard; coins accompany each rank.
type MonthlyVideoPrize struct {
	Prize string `json:"prize"`
	Coins int64  `json:"coins"`
}

var MonthlyVideoPrizes = map[int]MonthlyVideoPrize{
	1:  {Prize: "iPhone 16 Pro Max", Coins: 100000},
	2:  {Prize: "Samsung Galaxy S24 Ultra", Coins: 75000},
	3:  {Prize: "MacBook Air M3", Coins: 50000},
	4:  {Prize: "iPad Pro", Coins: 30000},
	5:  {Prize: "AirPods Pro", Coins: 20000},
	6:  {Prize: "10,000 Coins", Coins: 10000},
	7:  {Prize: "10,000 Coins", Coins: 10000},
	8:  {Prize: "10,000 Coins", Coins: 10000},
	9:  {Prize: "10,000 Coins", Coins: 10000},
	10: {Prize: "10,000 Coins", Coins: 10000},
}

// TierForRank buckets top-150 ranks into medal tiers.
func TierForRank(rank int) string {
	switch {
	case rank <= 10:
		return "gold"
	case rank <= 50:
		return "silver"
	default:
		return "bronze"
	}
}

type Entry struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

type Payout struct {
	ID        string    `gorm:"column:id;primaryKey" json:"payout_id"`
	Period    string    `gorm:"column:period;index:idx_payout_period_key,unique" json:"period"`
	PeriodKey string    `gorm:"column:period_key;index:idx_payout_period_key,unique" json:"period_key"`
	Winners   int       `gorm:"column:winners" json:"winners"`
	TotalPaid int64     `gorm:"column:total_paid" json:"total_paid"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Payout) TableName() string { return "leaderboard_payouts" }
