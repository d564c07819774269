package logicpk

import (
	"time"

	"gorm.io/datatypes"
)

// Betting limits. A stake may not exceed MaxBetPercent of the player's
// coins, and three losses inside 24 hours trigger a betting cooldown.
const (
	MinBet        int64 = 10
	MaxBet        int64 = 1000
	MaxBetPercent int64 = 20

	PlatformFeePercent int64 = 10
	ConsolationPrize   int64 = 50

	CooldownLosses = 3
	CooldownWindow = 24 * time.Hour

	AnswerTimeLimitSeconds = 60
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	ResultWin  = "win"
	ResultLoss = "loss"
	ResultTie  = "tie"

	WinnerTie = "tie"
)

type Question struct {
	ID         string   `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Correct    string   `json:"correct"`
	Difficulty string   `json:"difficulty"`
	Category   string   `json:"category"`
}

// Questions is the fixed challenge bank.
var Questions = []Question{
	{
		ID:         "q1",
		Question:   "Agar 5 machines 5 minutes mein 5 widgets banati hain, toh 100 machines 100 minutes mein kitne widgets banayengi?",
		Options:    []string{"100", "500", "1000", "2000"},
		Correct:    "2000",
		Difficulty: "medium",
		Category:   "logic",
	},
	{
		ID:         "q2",
		Question:   "Ek doctor ne kaha: 'Jo ladka hai wo mera beta hai, lekin main uska baap nahi.' Doctor kaun hai?",
		Options:    []string{"Chacha", "Dada", "Maa", "Bhai"},
		Correct:    "Maa",
		Difficulty: "easy",
		Category:   "riddle",
	},
	{
		ID:         "q3",
		Question:   "3 friends ne ₹300 ka pizza liya. Har ek ne ₹100 diye. Waiter ne ₹50 wapas kiye. ₹20 tip mein gaye, ₹30 wapas. Har ek ko ₹10 mila. 3×90=270+20=290. ₹10 kahan gaye?",
		Options:    []string{"Waiter ke paas", "Kahin nahi gaye", "Pizza mein", "Yeh puzzle hai"},
		Correct:    "Kahin nahi gaye",
		Difficulty: "hard",
		Category:   "math_puzzle",
	},
	{
		ID:         "q4",
		Question:   "Sultan ke paas 10 gold coins hain. Wo har din apne coins double karta hai. 10 din mein uske paas 10,240 coins honge. 9 din mein kitne the?",
		Options:    []string{"5,120", "2,560", "1,024", "512"},
		Correct:    "5,120",
		Difficulty: "medium",
		Category:   "math",
	},
	{
		ID:         "q5",
		Question:   "Ek ethical dilemma: Train 5 logon ki taraf ja rahi hai. Aap lever khench kar 1 aadmi ki taraf bhej sakte ho. Kya karoge?",
		Options:    []string{"Lever kheenchna", "Kuch nahi karna", "Train rok dena", "Bhag jana"},
		Correct:    "Lever kheenchna",
		Difficulty: "hard",
		Category:   "ethics",
	},
}

type Challenge struct {
	ID               string         `gorm:"column:id;primaryKey" json:"challenge_id"`
	Code             string         `gorm:"column:code" json:"code"`
	ChallengerID     string         `gorm:"column:challenger_id;index" json:"challenger_id"`
	OpponentID       string         `gorm:"column:opponent_id;index" json:"opponent_id"`
	BetAmount        int64          `gorm:"column:bet_amount" json:"bet_amount"`
	Status           string         `gorm:"column:status;index" json:"status"`
	Question         datatypes.JSON `gorm:"column:question" json:"question"`
	ChallengerAnswer string         `gorm:"column:challenger_answer" json:"challenger_answer,omitempty"`
	OpponentAnswer   string         `gorm:"column:opponent_answer" json:"opponent_answer,omitempty"`
	WinnerID         string         `gorm:"column:winner_id" json:"winner_id,omitempty"`
	CreatedAt        time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

type History struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;index" json:"user_id"`
	ChallengeID string    `gorm:"column:challenge_id" json:"challenge_id"`
	Result      string    `gorm:"column:result" json:"result"`
	CoinsWon    int64     `gorm:"column:coins_won" json:"coins_won,omitempty"`
	CoinsLost   int64     `gorm:"column:coins_lost" json:"coins_lost,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;index" json:"created_at"`
}

// Settlement captures the pot arithmetic for a completed challenge.
type Settlement struct {
	TotalPot    int64
	PlatformFee int64
	WinnerPrize int64
	Consolation int64
}

// Settle computes the pot split for a stake. The winner takes the pot
// less the platform fee; the loser keeps the consolation prize.
func Settle(bet int64) Settlement {
	pot := bet * 2
	fee := pot * PlatformFeePercent / 100
	return Settlement{
		TotalPot:    pot,
		PlatformFee: fee,
		WinnerPrize: pot - fee,
		Consolation: ConsolationPrize,
	}
}
