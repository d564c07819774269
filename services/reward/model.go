package reward

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActivityMinutesRequired int64 = 15
	ActivityCoinsReward     int64 = 200
	ActivityMaxDailyRewards int64 = 6
	ActivityFirstDailyBonus int64 = 50

	ChatReward          int64 = 20
	MaxDailyChatRewards int64 = 50

	AllMissionsBonus int64 = 100
)

type Mission struct {
	ID          string `json:"mission_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RewardCoins int64  `json:"reward_coins"`
	Target      int    `json:"target"`
	Type        string `json:"type"`
}

var Missions = []Mission{
	{ID: "complete_video", Title: "Watch 1 Course Video", Description: "Complete watching any course video", RewardCoins: 50, Target: 1, Type: "video"},
	{ID: "solve_questions", Title: "Solve 10 Questions", Description: "Answer 10 quiz questions", RewardCoins: 30, Target: 10, Type: "quiz"},
	{ID: "help_friend", Title: "Help a Friend", Description: "Answer someone's doubt in community", RewardCoins: 20, Target: 1, Type: "social"},
	{ID: "study_time", Title: "Study for 30 Minutes", Description: "Spend 30 minutes learning", RewardCoins: 40, Target: 30, Type: "time"},
	{ID: "gyan_yuddh", Title: "Play Gyan Yuddh", Description: "Complete 1 mind game", RewardCoins: 25, Target: 1, Type: "game"},
}

func MissionByID(id string) (Mission, bool) {
	for _, m := range Missions {
		if m.ID == id {
			return m, true
		}
	}
	return Mission{}, false
}

// MissionState is the per-mission progress stored inside MissionProgress.
type MissionState struct {
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
	Claimed   bool `json:"claimed"`
}

type ActivitySession struct {
	ID                 string    `gorm:"column:id;primaryKey" json:"session_id"`
	UserID             string    `gorm:"column:user_id;index:idx_activity_user_date,unique" json:"user_id"`
	Date               string    `gorm:"column:date;index:idx_activity_user_date,unique" json:"date"`
	TotalActiveMinutes int64     `gorm:"column:total_active_minutes" json:"total_active_minutes"`
	RewardsClaimed     int64     `gorm:"column:rewards_claimed" json:"rewards_claimed"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ActivitySession) TableName() string { return "activity_sessions" }

type MessagingReward struct {
	ID        string    `gorm:"column:id;primaryKey" json:"reward_id"`
	UserID    string    `gorm:"column:user_id;index" json:"user_id"`
	Date      string    `gorm:"column:date;index" json:"date"`
	Amount    int64     `gorm:"column:amount" json:"amount"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MessagingReward) TableName() string { return "messaging_rewards" }

type MissionProgress struct {
	ID                string         `gorm:"column:id;primaryKey" json:"-"`
	UserID            string         `gorm:"column:user_id;index:idx_mission_user_date,unique" json:"user_id"`
	Date              string         `gorm:"column:date;index:idx_mission_user_date,unique" json:"date"`
	Missions          datatypes.JSON `gorm:"column:missions" json:"missions"`
	AllBonusClaimed   bool           `gorm:"column:all_bonus_claimed" json:"all_completed_bonus_claimed"`
	CreatedAt         time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (MissionProgress) TableName() string { return "daily_mission_progress" }
