package crown

import "time"

const (
	TypeBronze       = "bronze"
	TypeSilver       = "silver"
	TypeGold         = "gold"
	TypeGifter       = "gifter"
	TypeQueen        = "queen"
	TypeVideoCreator = "video_creator"
)

// Definition describes a crown tier. Expr is a CEL expression over the
// user's stats; crowns without one (queen) are awarded manually.
type Definition struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Expr  string `json:"-"`
	Icon  string `json:"icon"`
	Color string `json:"color"`

	Requirements map[string]int64 `json:"requirements"`
}

var Definitions = []Definition{
	{
		Type: TypeBronze, Name: "Bronze", Icon: "🥉", Color: "#CD7F32",
		Expr:         "total_likes >= 100 && total_videos >= 5",
		Requirements: map[string]int64{"min_likes": 100, "min_videos": 5},
	},
	{
		Type: TypeSilver, Name: "Silver", Icon: "🥈", Color: "#C0C0C0",
		Expr:         "total_likes >= 1000 && total_videos >= 20",
		Requirements: map[string]int64{"min_likes": 1000, "min_videos": 20},
	},
	{
		Type: TypeGold, Name: "Gold", Icon: "🥇", Color: "#FFD700",
		Expr:         "total_likes >= 10000 && total_videos >= 50",
		Requirements: map[string]int64{"min_likes": 10000, "min_videos": 50},
	},
	{
		Type: TypeGifter, Name: "Gifter", Icon: "🎁", Color: "#E91E63",
		Expr:         "total_gifts_sent >= 10000",
		Requirements: map[string]int64{"min_gifts_sent": 10000},
	},
	{
		Type: TypeQueen, Name: "Queen", Icon: "👑", Color: "#9C27B0",
		Requirements: map[string]int64{},
	},
	{
		Type: TypeVideoCreator, Name: "Video Creator", Icon: "🎬", Color: "#2196F3",
		Expr:         "total_videos >= 100 && total_views >= 100000",
		Requirements: map[string]int64{"min_videos": 100, "min_total_views": 100000},
	},
}

func DefinitionByType(t string) (Definition, bool) {
	for _, d := range Definitions {
		if d.Type == t {
			return d, true
		}
	}
	return Definition{}, false
}

type UserStats struct {
	ID                 string    `gorm:"column:id;primaryKey" json:"-"`
	UserID             string    `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	TotalLikesReceived int64     `gorm:"column:total_likes_received" json:"total_likes"`
	TotalVideos        int64     `gorm:"column:total_videos" json:"total_videos"`
	TotalViews         int64     `gorm:"column:total_views" json:"total_views"`
	TotalGiftsSent     int64     `gorm:"column:total_gifts_sent" json:"total_gifts_sent"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"-"`
}

func (UserStats) TableName() string { return "user_stats" }

type UserCrown struct {
	ID        string     `gorm:"column:id;primaryKey" json:"crown_id"`
	UserID    string     `gorm:"column:user_id;index" json:"user_id"`
	CrownType string     `gorm:"column:crown_type" json:"crown_type"`
	EarnedAt  time.Time  `gorm:"column:earned_at" json:"earned_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	IsActive  bool       `gorm:"column:is_active;index" json:"is_active"`
}

func (UserCrown) TableName() string { return "user_crowns" }
