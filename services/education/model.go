package education

import (
	"time"

	"github.com/gosimple/slug"
)

const (
	PerLessonCoins        int64 = 20
	CourseCompletionBonus int64 = 500
	QuizCorrectReward     int64 = 10
	QuizCompletionBonus   int64 = 50
	DailyTargetMinutes          = 30
	DailyLearningReward   int64 = 100

	MindGameMaxScore     = 100
	MindGameFastBonusNum = 3 // x1.5 for finishing under half the limit
	MindGameFastBonusDen = 2
)

const (
	EnrollmentInProgress = "in_progress"
	EnrollmentCompleted  = "completed"
)

// LearningLevel is a label tier earned by accumulated study hours.
type LearningLevel struct {
	Name       string `json:"name"`
	MinHours   int64  `json:"min_hours"`
	Reward     int64  `json:"reward"`
	BadgeColor string `json:"badge_color"`
}

// Levels is ordered by MinHours ascending.
var Levels = []LearningLevel{
	{Name: "seedling", MinHours: 0, Reward: 500, BadgeColor: "#4CAF50"},
	{Name: "sprout", MinHours: 10, Reward: 1500, BadgeColor: "#8BC34A"},
	{Name: "tree", MinHours: 25, Reward: 5000, BadgeColor: "#CDDC39"},
	{Name: "star_learner", MinHours: 50, Reward: 15000, BadgeColor: "#FFEB3B"},
	{Name: "diamond_scholar", MinHours: 100, Reward: 35000, BadgeColor: "#03A9F4"},
	{Name: "master_guru", MinHours: 200, Reward: 75000, BadgeColor: "#9C27B0"},
	{Name: "legend", MinHours: 500, Reward: 200000, BadgeColor: "#FFD700"},
}

// LevelForHours returns the highest level whose threshold the hours meet.
func LevelForHours(hours float64) LearningLevel {
	current := Levels[0]
	for _, lvl := range Levels {
		if hours >= float64(lvl.MinHours) {
			current = lvl
		}
	}
	return current
}

// NextLevel returns the first level above the given hours, or nil at the top.
func NextLevel(hours float64) *LearningLevel {
	for i := range Levels {
		if float64(Levels[i].MinHours) > hours {
			return &Levels[i]
		}
	}
	return nil
}

var Categories = []string{
	"Mathematics", "Science", "English", "Computer Science",
	"Business", "Arts", "Languages", "Life Skills", "Mind Games",
}

type Course struct {
	ID              string `json:"course_id"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	Difficulty      string `json:"difficulty"`
	LessonsCount    int    `json:"lessons_count"`
	CompletionCoins int64  `json:"completion_coins"`
	PerLessonCoins  int64  `json:"per_lesson_coins"`
}

func newCourse(title, category, difficulty string, lessons int, completionCoins, perLesson int64) Course {
	return Course{
		ID:              slug.Make(title),
		Title:           title,
		Category:        category,
		Difficulty:      difficulty,
		LessonsCount:    lessons,
		CompletionCoins: completionCoins,
		PerLessonCoins:  perLesson,
	}
}

var Courses = []Course{
	newCourse("Math Basics", "Mathematics", "easy", 20, 500, 20),
	newCourse("English Speaking", "English", "medium", 30, 750, 20),
	newCourse("Computer Basics", "Computer Science", "easy", 16, 400, 20),
	newCourse("Business Skills", "Business", "hard", 40, 1000, 25),
	newCourse("Mind Training", "Mind Games", "all", 10, 300, 30),
}

func CourseByID(id string) (Course, bool) {
	for _, c := range Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

type MindGame struct {
	ID               string `json:"game_id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Difficulty       string `json:"difficulty"`
	CoinsReward      int64  `json:"coins_reward"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
}

var MindGames = []MindGame{
	{ID: "memory_match", Name: "Memory Match", Description: "Match pairs to improve memory", Difficulty: "easy", CoinsReward: 50, TimeLimitSeconds: 120},
	{ID: "math_puzzle", Name: "Math Puzzle", Description: "Solve math problems quickly", Difficulty: "medium", CoinsReward: 100, TimeLimitSeconds: 60},
	{ID: "word_scramble", Name: "Word Scramble", Description: "Unscramble words to build vocabulary", Difficulty: "easy", CoinsReward: 50, TimeLimitSeconds: 90},
	{ID: "logic_puzzle", Name: "Logic Puzzle", Description: "Solve logical reasoning challenges", Difficulty: "hard", CoinsReward: 200, TimeLimitSeconds: 180},
	{ID: "pattern_recognition", Name: "Pattern Recognition", Description: "Identify patterns and sequences", Difficulty: "medium", CoinsReward: 100, TimeLimitSeconds: 120},
}

func MindGameByID(id string) (MindGame, bool) {
	for _, g := range MindGames {
		if g.ID == id {
			return g, true
		}
	}
	return MindGame{}, false
}

// MindGameReward scales the game's base reward by score, with a 50%
// bonus for finishing in under half the time limit.
func MindGameReward(g MindGame, score, timeTakenSeconds int) int64 {
	if score < 0 {
		score = 0
	}
	if score > MindGameMaxScore {
		score = MindGameMaxScore
	}

	earned := g.CoinsReward * int64(score) / MindGameMaxScore
	if timeTakenSeconds < g.TimeLimitSeconds/2 {
		earned = earned * MindGameFastBonusNum / MindGameFastBonusDen
	}
	return earned
}

type EducationProfile struct {
	ID                 string    `gorm:"column:id;primaryKey" json:"-"`
	UserID             string    `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	TotalLearningHours float64   `gorm:"column:total_learning_hours" json:"total_learning_hours"`
	CoursesCompleted   int64     `gorm:"column:courses_completed" json:"courses_completed"`
	QuizzesCompleted   int64     `gorm:"column:quizzes_completed" json:"quizzes_completed"`
	GamesPlayed        int64     `gorm:"column:games_played" json:"games_played"`
	TotalCoinsEarned   int64     `gorm:"column:total_coins_earned" json:"total_coins_earned"`
	LastLearningDate   string    `gorm:"column:last_learning_date" json:"last_learning_date,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (EducationProfile) TableName() string { return "education_profiles" }

type Enrollment struct {
	ID               string    `gorm:"column:id;primaryKey" json:"enrollment_id"`
	UserID           string    `gorm:"column:user_id;index:idx_enrollment_user_course,unique" json:"user_id"`
	CourseID         string    `gorm:"column:course_id;index:idx_enrollment_user_course,unique" json:"course_id"`
	Status           string    `gorm:"column:status" json:"status"`
	LessonsCompleted int       `gorm:"column:lessons_completed" json:"lessons_completed"`
	TotalLessons     int       `gorm:"column:total_lessons" json:"total_lessons"`
	ProgressPercent  float64   `gorm:"column:progress_percent" json:"progress_percent"`
	CoinsEarned      int64     `gorm:"column:coins_earned" json:"coins_earned"`
	LastAccessed     time.Time `gorm:"column:last_accessed" json:"last_accessed"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Enrollment) TableName() string { return "course_enrollments" }

type LearningSession struct {
	ID              string    `gorm:"column:id;primaryKey" json:"session_id"`
	UserID          string    `gorm:"column:user_id;index" json:"user_id"`
	CourseID        string    `gorm:"column:course_id" json:"course_id"`
	LessonID        string    `gorm:"column:lesson_id" json:"lesson_id"`
	DurationMinutes int64     `gorm:"column:duration_minutes" json:"duration_minutes"`
	CoinsEarned     int64     `gorm:"column:coins_earned" json:"coins_earned"`
	Date            string    `gorm:"column:date;index" json:"date"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (LearningSession) TableName() string { return "learning_sessions" }

type MindGameRecord struct {
	ID               string    `gorm:"column:id;primaryKey" json:"record_id"`
	UserID           string    `gorm:"column:user_id;index" json:"user_id"`
	GameID           string    `gorm:"column:game_id" json:"game_id"`
	Score            int       `gorm:"column:score" json:"score"`
	TimeTakenSeconds int       `gorm:"column:time_taken_seconds" json:"time_taken_seconds"`
	CoinsEarned      int64     `gorm:"column:coins_earned" json:"coins_earned"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MindGameRecord) TableName() string { return "mind_game_records" }
