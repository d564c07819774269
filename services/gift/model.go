package gift

import "time"

type Gift struct {
	ID        string `json:"gift_id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Price     int64  `json:"price"`
	Category  string `json:"category"`
	Animation string `json:"animation"`
	Exclusive bool   `json:"exclusive,omitempty"`
}

// Catalog is fixed at build time, keyed by category.
var Catalog = map[string][]Gift{
	"basic": {
		{ID: "rose", Name: "Red Rose", Emoji: "rose", Price: 10, Category: "basic", Animation: "float"},
		{ID: "heart", Name: "Love Heart", Emoji: "heart", Price: 20, Category: "basic", Animation: "pulse"},
		{ID: "star", Name: "Shining Star", Emoji: "star", Price: 30, Category: "basic", Animation: "sparkle"},
		{ID: "coffee", Name: "Hot Coffee", Emoji: "coffee", Price: 15, Category: "basic", Animation: "steam"},
		{ID: "kiss", Name: "Flying Kiss", Emoji: "kiss", Price: 25, Category: "basic", Animation: "fly"},
	},
	"premium": {
		{ID: "diamond_ring", Name: "Diamond Ring", Emoji: "ring", Price: 500, Category: "premium", Animation: "shine"},
		{ID: "gold_crown", Name: "Royal Crown", Emoji: "crown", Price: 1000, Category: "premium", Animation: "glow"},
		{ID: "sports_car", Name: "Sports Car", Emoji: "car", Price: 2000, Category: "premium", Animation: "drive"},
		{ID: "private_jet", Name: "Private Jet", Emoji: "airplane", Price: 5000, Category: "premium", Animation: "takeoff"},
		{ID: "yacht", Name: "Luxury Yacht", Emoji: "boat", Price: 8000, Category: "premium", Animation: "wave"},
	},
	"signature": {
		{ID: "mugaddas_star", Name: "Mugaddas Star", Emoji: "sparkles", Price: 10000, Category: "signature", Animation: "supernova", Exclusive: true},
		{ID: "golden_palace", Name: "Golden Palace", Emoji: "castle", Price: 25000, Category: "signature", Animation: "build", Exclusive: true},
		{ID: "universe", Name: "Gift of Universe", Emoji: "galaxy", Price: 50000, Category: "signature", Animation: "cosmic", Exclusive: true},
		{ID: "eternal_love", Name: "Eternal Love", Emoji: "infinity", Price: 100000, Category: "signature", Animation: "eternal", Exclusive: true},
	},
	"special": {
		{ID: "birthday_cake", Name: "Birthday Cake", Emoji: "cake", Price: 100, Category: "special", Animation: "candles"},
		{ID: "fireworks", Name: "Fireworks", Emoji: "fireworks", Price: 200, Category: "special", Animation: "explode"},
		{ID: "trophy", Name: "Winner Trophy", Emoji: "trophy", Price: 300, Category: "special", Animation: "shine"},
		{ID: "lucky_charm", Name: "Lucky Charm", Emoji: "clover", Price: 88, Category: "special", Animation: "lucky"},
	},
}

// ByID does a catalog lookup across all categories.
func ByID(id string) (Gift, bool) {
	for _, gifts := range Catalog {
		for _, g := range gifts {
			if g.ID == id {
				return g, true
			}
		}
	}
	return Gift{}, false
}

type GiftRecord struct {
	ID            string    `gorm:"column:id;primaryKey" json:"id"`
	SenderID      string    `gorm:"column:sender_id;index" json:"sender_id"`
	ReceiverID    string    `gorm:"column:receiver_id;index" json:"receiver_id"`
	GiftID        string    `gorm:"column:gift_id" json:"gift_id"`
	GiftName      string    `gorm:"column:gift_name" json:"gift_name"`
	GiftPrice     int64     `gorm:"column:gift_price" json:"gift_price"`
	Quantity      int       `gorm:"column:quantity" json:"quantity"`
	TotalValue    int64     `gorm:"column:total_value" json:"total_value"`
	CharityAmount int64     `gorm:"column:charity_amount" json:"charity_amount"`
	Message       string    `gorm:"column:message" json:"message,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;index" json:"created_at"`
}
