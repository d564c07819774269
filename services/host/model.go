package host

import "time"

// Policy figures for live hosting rewards. New hosts get a boosted rate
// for the first week after registration.
const (
	WelcomePeriodDays = 7

	WelcomeVideoRewardPerHour   int64 = 2000
	WelcomeAudioRewardPer2Hours int64 = 3000
	NormalVideoRewardPerHour    int64 = 1000
	NormalAudioRewardPerHour    int64 = 500
	DailyTargetStars            int64 = 3000
	HighEarnerThreshold         int64 = 300_000
	HighEarnerBonus             int64 = 3000
	HighEarnerCharityPercent    int64 = 2
	HighEarnerInstalmentGapDays       = 15

	MinVideoMinutes = 60
	MinAudioMinutes = 120
)

const (
	TypeVideo = "video"
	TypeAudio = "audio"
)

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

const (
	BonusPartial = "partial"
	BonusPaid    = "paid"
)

type Profile struct {
	ID                 string    `gorm:"column:id;primaryKey" json:"-"`
	UserID             string    `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	RegisteredAt       time.Time `gorm:"column:registered_at" json:"registered_at"`
	TotalLiveMinutes   int64     `gorm:"column:total_live_minutes" json:"total_live_minutes"`
	TotalStarsEarned   int64     `gorm:"column:total_stars_earned" json:"total_stars_earned"`
	TotalGiftsReceived int64     `gorm:"column:total_gifts_received" json:"total_gifts_received"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string { return "host_profiles" }

type Session struct {
	ID              string     `gorm:"column:id;primaryKey" json:"session_id"`
	UserID          string     `gorm:"column:user_id;index" json:"user_id"`
	HostType        string     `gorm:"column:host_type" json:"host_type"`
	Status          string     `gorm:"column:status;index" json:"status"`
	IsWelcomePeriod bool       `gorm:"column:is_welcome_period" json:"is_welcome_period"`
	StartedAt       time.Time  `gorm:"column:started_at" json:"started_at"`
	EndedAt         *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
	DurationMinutes int64      `gorm:"column:duration_minutes" json:"duration_minutes"`
	StarsEarned     int64      `gorm:"column:stars_earned" json:"stars_earned"`
	CreatedAt       time.Time  `gorm:"column:created_at;index" json:"created_at"`
}

func (Session) TableName() string { return "host_sessions" }

type HighEarnerRecord struct {
	ID                 string     `gorm:"column:id;primaryKey" json:"bonus_id"`
	UserID             string     `gorm:"column:user_id;index" json:"user_id"`
	Month              string     `gorm:"column:month;index" json:"month"`
	TotalBonus         int64      `gorm:"column:total_bonus" json:"total_bonus"`
	Instalment         int64      `gorm:"column:instalment" json:"instalment"`
	SecondInstalmentAt time.Time  `gorm:"column:second_instalment_at" json:"second_instalment_at"`
	SecondPaidAt       *time.Time `gorm:"column:second_paid_at" json:"second_paid_at,omitempty"`
	Status             string     `gorm:"column:status" json:"status"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (HighEarnerRecord) TableName() string { return "host_high_earner_bonuses" }

// SessionReward computes the stars a finished session pays out. Sessions
// shorter than the minimum for their type pay nothing; video always
// requires the minimum, normal-policy audio pays per started hour.
func SessionReward(hostType string, welcome bool, durationMinutes int64) int64 {
	switch hostType {
	case TypeVideo:
		if durationMinutes < MinVideoMinutes {
			return 0
		}
		hours := durationMinutes / 60
		if welcome {
			return hours * WelcomeVideoRewardPerHour
		}
		return hours * NormalVideoRewardPerHour

	case TypeAudio:
		if welcome {
			if durationMinutes < MinAudioMinutes {
				return 0
			}
			return (durationMinutes / 120) * WelcomeAudioRewardPer2Hours
		}
		return (durationMinutes / 60) * NormalAudioRewardPerHour
	}

	return 0
}
