package game

import "time"

// Lucky wallet rules. A draw of 1..100 at or below WinningRate wins.
// On a win the player is paid WinUserPercent of the bet while
// WinCharityPercent routes to charity; the recorded balance change is
// payout minus stake, which is negative. This arithmetic is the
// published product behavior and is kept exactly as defined.
const (
	WinningRate        = 45
	WinUserPercent     = 70
	WinCharityPercent  = 30
	LoseCharityPercent = 45
	LosePlatformPct    = 55

	MinBet int64 = 10
	MaxBet int64 = 100_000
)

const (
	ResultWin  = "win"
	ResultLose = "lose"
)

// Outcome is the settled arithmetic of one play.
type Outcome struct {
	Result        string `json:"result"`
	Draw          int    `json:"random_number"`
	BetAmount     int64  `json:"bet_amount"`
	WonAmount     int64  `json:"won_amount"`
	CharityAmount int64  `json:"charity_amount"`
	PlatformCut   int64  `json:"platform_amount"`
	BalanceChange int64  `json:"balance_change"`
}

// Payout settles a bet against a draw in 1..100. Pure; the caller owns
// randomness and persistence.
func Payout(bet int64, draw int) Outcome {
	o := Outcome{Draw: draw, BetAmount: bet}

	if draw <= WinningRate {
		o.Result = ResultWin
		o.WonAmount = bet * WinUserPercent / 100
		o.CharityAmount = bet * WinCharityPercent / 100
		o.BalanceChange = o.WonAmount - bet
		return o
	}

	o.Result = ResultLose
	o.CharityAmount = bet * LoseCharityPercent / 100
	o.PlatformCut = bet * LosePlatformPct / 100
	o.BalanceChange = -bet
	return o
}

type LuckyWalletGame struct {
	ID            string    `gorm:"column:id;primaryKey" json:"game_id"`
	UserID        string    `gorm:"column:user_id;index" json:"user_id"`
	BetAmount     int64     `gorm:"column:bet_amount" json:"bet_amount"`
	Result        string    `gorm:"column:result" json:"result"`
	Draw          int       `gorm:"column:draw" json:"random_number"`
	WonAmount     int64     `gorm:"column:won_amount" json:"won_amount"`
	CharityAmount int64     `gorm:"column:charity_amount" json:"charity_amount"`
	PlatformCut   int64     `gorm:"column:platform_amount" json:"platform_amount"`
	BalanceChange int64     `gorm:"column:balance_change" json:"balance_change"`
	NewBalance    int64     `gorm:"column:new_balance" json:"new_balance"`
	CreatedAt     time.Time `gorm:"column:created_at;index" json:"created_at"`
}
