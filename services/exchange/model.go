package exchange

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange terms: 1 star converts to 0.92 coins; the 8% spread is the
// platform fee. Quoted coins already include the fee, so quote and net
// are the same figure.
var Rate = decimal.RequireFromString("0.92")

const (
	FeePercent        = 8
	MinimumStars      = 1000
	DailyLimitStars   = 1_000_000
	MonthlyLimitStars = 10_000_000
)

type Quote struct {
	Stars      int64 `json:"stars_to_exchange"`
	GrossCoins int64 `json:"gross_coins"`
	FeeCoins   int64 `json:"fee_coins"`
	NetCoins   int64 `json:"net_coins"`
}

// QuoteFor prices an exchange of stars into coins.
func QuoteFor(stars int64) Quote {
	gross := Rate.Mul(decimal.NewFromInt(stars)).IntPart()
	fee := decimal.NewFromInt(stars).
		Mul(decimal.NewFromInt(FeePercent)).
		Div(decimal.NewFromInt(100)).
		IntPart()

	return Quote{
		Stars:      stars,
		GrossCoins: gross,
		FeeCoins:   fee,
		NetCoins:   gross,
	}
}

type StarExchange struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	UserID         string    `gorm:"column:user_id;index" json:"user_id"`
	StarsExchanged int64     `gorm:"column:stars_exchanged" json:"stars_exchanged"`
	CoinsReceived  int64     `gorm:"column:coins_received" json:"coins_received"`
	FeeCoins       int64     `gorm:"column:fee_coins" json:"fee_coins"`
	Rate           string    `gorm:"column:rate" json:"exchange_rate"`
	CreatedAt      time.Time `gorm:"column:created_at;index" json:"created_at"`
}
