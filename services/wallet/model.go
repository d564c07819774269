package wallet

import (
	"time"

	"gorm.io/datatypes"

	"gyansultanat-platform/pkg/errutil"
)

// Sub-balances a wallet carries. Held is internal only (game stakes);
// it is not a valid transfer target.
const (
	SubCoins        = "coins"
	SubStars        = "stars"
	SubBonus        = "bonus"
	SubWithdrawable = "withdrawable"
	SubHeld         = "held"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction types. The log is append-only; every balance mutation
// writes exactly one row with one of these.
const (
	TypeDeposit            = "deposit"
	TypeWithdrawal         = "withdrawal"
	TypeVIPSubscription    = "vip_subscription"
	TypeVIPRenewal         = "vip_renewal"
	TypeBonus              = "bonus"
	TypeTransfer           = "transfer"
	TypeActivityReward     = "activity_reward"
	TypeDailyReward        = "daily_reward"
	TypeReferralCommission = "referral_commission"
	TypeCharity            = "charity_contribution"
	TypeStarsConversion    = "star_to_coin_exchange"
	TypeGiftSent           = "gift_sent"
	TypeGiftReceived       = "gift_received"
	TypeMessagingReward    = "messaging_reward"
	TypeLuckyWalletBet     = "lucky_wallet_bet"
	TypeLuckyWalletWin     = "lucky_wallet_win"
	TypeLogicPKBet         = "logic_pk_bet"
	TypeLogicPKWin         = "logic_pk_win"
	TypeHostReward         = "host_reward"
	TypeHighEarnerBonus    = "high_earner_bonus"
	TypeEducationReward    = "education_reward"
	TypeMindGameReward     = "mind_game_reward"
	TypeMissionReward      = "mission_reward"
)

const (
	WelcomeCoins = 1000
	WelcomeBonus = 100

	MaxDepositAmount = 100_000
)

type Wallet struct {
	ID                  string    `gorm:"column:id;primaryKey" json:"id"`
	UserID              string    `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	CoinsBalance        int64     `gorm:"column:coins_balance" json:"coins_balance"`
	StarsBalance        int64     `gorm:"column:stars_balance" json:"stars_balance"`
	BonusBalance        int64     `gorm:"column:bonus_balance" json:"bonus_balance"`
	WithdrawableBalance int64     `gorm:"column:withdrawable_balance" json:"withdrawable_balance"`
	HeldBalance         int64     `gorm:"column:held_balance" json:"held_balance"`
	TotalDeposited      int64     `gorm:"column:total_deposited" json:"total_deposited"`
	TotalWithdrawn      int64     `gorm:"column:total_withdrawn" json:"total_withdrawn"`
	CreatedAt           time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at" json:"updated_at"`
}

type WalletTransaction struct {
	ID          string         `gorm:"column:id;primaryKey" json:"id"`
	Code        string         `gorm:"column:code" json:"code"`
	UserID      string         `gorm:"column:user_id;index" json:"user_id"`
	Type        string         `gorm:"column:type" json:"type"`
	SubBalance  string         `gorm:"column:sub_balance" json:"sub_balance"`
	Amount      int64          `gorm:"column:amount" json:"amount"`
	Status      string         `gorm:"column:status" json:"status"`
	Description string         `gorm:"column:description" json:"description"`
	Channel     string         `gorm:"column:channel" json:"channel"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;index" json:"created_at"`
}

var subColumns = map[string]string{
	SubCoins:        "coins_balance",
	SubStars:        "stars_balance",
	SubBonus:        "bonus_balance",
	SubWithdrawable: "withdrawable_balance",
	SubHeld:         "held_balance",
}

// transferable sub-balances a user may move funds between
var transferableSubs = map[string]bool{
	SubCoins:        true,
	SubStars:        true,
	SubBonus:        true,
	SubWithdrawable: true,
}

func columnFor(sub string) (string, error) {
	col, ok := subColumns[sub]
	if !ok {
		return "", errutil.BadRequest("unknown sub-balance", nil)
	}
	return col, nil
}

func (w *Wallet) balanceOf(sub string) int64 {
	switch sub {
	case SubCoins:
		return w.CoinsBalance
	case SubStars:
		return w.StarsBalance
	case SubBonus:
		return w.BonusBalance
	case SubWithdrawable:
		return w.WithdrawableBalance
	case SubHeld:
		return w.HeldBalance
	default:
		return 0
	}
}
