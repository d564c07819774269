package education

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	wallets  *wallet.Service
	enqueuer task.Enqueuer

	profiles    repository.Repository[EducationProfile]
	enrollments repository.Repository[Enrollment]
	sessions    repository.Repository[LearningSession]
	gameRecords repository.Repository[MindGameRecord]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Node     *snowflake.Node
	Wallet   *wallet.Service
	Enqueuer task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		wallets:  p.Wallet,
		enqueuer: p.Enqueuer,

		profiles:    repository.ProvideStore[EducationProfile](p.DB),
		enrollments: repository.ProvideStore[Enrollment](p.DB),
		sessions:    repository.ProvideStore[LearningSession](p.DB),
		gameRecords: repository.ProvideStore[MindGameRecord](p.DB),
	}
}

type ProfileView struct {
	Profile              *EducationProfile `json:"profile"`
	CurrentLevel         string            `json:"current_level"`
	LevelInfo            LearningLevel     `json:"level_info"`
	NextLevel            *LearningLevel    `json:"next_level,omitempty"`
	HoursToNextLevel     float64           `json:"hours_to_next_level"`
	TodayLearningMinutes int64             `json:"today_learning_minutes"`
	DailyTargetMinutes   int               `json:"daily_target_minutes"`
	EnrolledCourses      []*Enrollment     `json:"enrolled_courses"`
	AllLevels            []LearningLevel   `json:"all_levels"`
}

// GetProfile reports learning progress, level and enrollments. A
// profile is created on first access.
func (s *Service) GetProfile(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := s.getOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := LevelForHours(profile.TotalLearningHours)
	next := NextLevel(profile.TotalLearningHours)

	var hoursToNext float64
	if next != nil {
		hoursToNext = float64(next.MinHours) - profile.TotalLearningHours
	}

	today := time.Now().Format("2006-01-02")
	var todayMinutes int64
	if err := s.db.WithContext(ctx).Model(&LearningSession{}).
		Where("user_id = ? AND date = ?", userID, today).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&todayMinutes).Error; err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.Find(ctx, &Enrollment{UserID: userID})
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		Profile:              profile,
		CurrentLevel:         level.Name,
		LevelInfo:            level,
		NextLevel:            next,
		HoursToNextLevel:     hoursToNext,
		TodayLearningMinutes: todayMinutes,
		DailyTargetMinutes:   DailyTargetMinutes,
		EnrolledCourses:      enrollments,
		AllLevels:            Levels,
	}, nil
}

// ListCourses returns the catalog, optionally filtered.
func (s *Service) ListCourses(category, difficulty string) []Course {
	out := make([]Course, 0, len(Courses))
	for _, c := range Courses {
		if category != "" && c.Category != category {
			continue
		}
		if difficulty != "" && c.Difficulty != difficulty && c.Difficulty != "all" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Enroll registers the user in a course.
func (s *Service) Enroll(ctx context.Context, userID, courseID string) (*Enrollment, error) {
	course, ok := CourseByID(courseID)
	if !ok {
		return nil, errutil.NotFound("course not found", nil)
	}

	existing, err := s.enrollments.FindOne(ctx, &Enrollment{UserID: userID, CourseID: courseID})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errutil.BadRequest("already enrolled in this course", nil)
	}

	if _, err := s.getOrCreateProfile(ctx, userID); err != nil {
		return nil, err
	}

	enrollment := &Enrollment{
		ID:           s.node.Generate().String(),
		UserID:       userID,
		CourseID:     course.ID,
		Status:       EnrollmentInProgress,
		TotalLessons: course.LessonsCount,
		LastAccessed: time.Now(),
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	return enrollment, nil
}

type LessonResult struct {
	CoinsEarned       int64   `json:"coins_earned"`
	BonusEarned       int64   `json:"bonus_earned"`
	NewProgress       float64 `json:"new_progress"`
	IsCourseCompleted bool    `json:"is_course_completed"`
}

// CompleteLesson pays the per-lesson reward, logs the study time, and
// pays the completion bonus when the course finishes.
func (s *Service) CompleteLesson(ctx context.Context, userID, courseID, lessonID string, durationMinutes int64) (*LessonResult, error) {
	enrollment, err := s.enrollments.FindOne(ctx, &Enrollment{UserID: userID, CourseID: courseID})
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, errutil.NotFound("not enrolled in this course", nil)
	}

	course, _ := CourseByID(courseID)
	perLesson := course.PerLessonCoins
	if perLesson == 0 {
		perLesson = PerLessonCoins
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubCoins,
		Amount:      perLesson,
		Type:        wallet.TypeEducationReward,
		Description: fmt.Sprintf("Completed lesson in %s", courseID),
		Metadata:    map[string]any{"course_id": courseID, "lesson_id": lessonID},
	}); err != nil {
		return nil, err
	}

	newLessons := enrollment.LessonsCompleted + 1
	newProgress := float64(newLessons) / float64(enrollment.TotalLessons) * 100
	if newProgress > 100 {
		newProgress = 100
	}
	completed := newProgress >= 100

	status := EnrollmentInProgress
	if completed {
		status = EnrollmentCompleted
	}

	if err := s.enrollments.Update(ctx, enrollment.ID, map[string]any{
		"lessons_completed": newLessons,
		"coins_earned":      gorm.Expr("coins_earned + ?", perLesson),
		"progress_percent":  newProgress,
		"last_accessed":     time.Now(),
		"status":            status,
	}); err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	if err := s.sessions.Create(ctx, &LearningSession{
		ID:              s.node.Generate().String(),
		UserID:          userID,
		CourseID:        courseID,
		LessonID:        lessonID,
		DurationMinutes: durationMinutes,
		CoinsEarned:     perLesson,
		Date:            today,
	}); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&EducationProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"total_learning_hours": gorm.Expr("total_learning_hours + ?", float64(durationMinutes)/60),
			"total_coins_earned":   gorm.Expr("total_coins_earned + ?", perLesson),
			"last_learning_date":   today,
		}).Error; err != nil {
		return nil, err
	}

	var bonus int64
	if completed {
		bonus = course.CompletionCoins
		if bonus == 0 {
			bonus = CourseCompletionBonus
		}

		if _, err := s.wallets.Credit(ctx, wallet.Entry{
			UserID:      userID,
			SubBalance:  wallet.SubCoins,
			Amount:      bonus,
			Type:        wallet.TypeEducationReward,
			Description: fmt.Sprintf("Course completion bonus for %s", courseID),
			Metadata:    map[string]any{"course_id": courseID},
		}); err != nil {
			return nil, err
		}

		if err := s.db.WithContext(ctx).Model(&EducationProfile{}).
			Where("user_id = ?", userID).
			Update("courses_completed", gorm.Expr("courses_completed + 1")).Error; err != nil {
			return nil, err
		}

		s.notify(userID, "Course Completed!",
			fmt.Sprintf("Congratulations! You completed the course and earned %d bonus coins!", bonus))
	}

	return &LessonResult{
		CoinsEarned:       perLesson,
		BonusEarned:       bonus,
		NewProgress:       newProgress,
		IsCourseCompleted: completed,
	}, nil
}

type MindGameResult struct {
	Game         string `json:"game"`
	Score        int    `json:"score"`
	CoinsEarned  int64  `json:"coins_earned"`
	TimeTaken    int    `json:"time_taken"`
	TimeLimit    int    `json:"time_limit"`
}

// PlayMindGame records a game result and pays the score-scaled reward.
func (s *Service) PlayMindGame(ctx context.Context, userID, gameID string, score, timeTakenSeconds int) (*MindGameResult, error) {
	game, ok := MindGameByID(gameID)
	if !ok {
		return nil, errutil.NotFound("game not found", nil)
	}

	if _, err := s.getOrCreateProfile(ctx, userID); err != nil {
		return nil, err
	}

	earned := MindGameReward(game, score, timeTakenSeconds)
	if earned > 0 {
		if _, err := s.wallets.Credit(ctx, wallet.Entry{
			UserID:      userID,
			SubBalance:  wallet.SubCoins,
			Amount:      earned,
			Type:        wallet.TypeMindGameReward,
			Description: fmt.Sprintf("Mind Game: %s - Score: %d", game.Name, score),
			Metadata:    map[string]any{"game_id": game.ID},
		}); err != nil {
			return nil, err
		}
	}

	if err := s.gameRecords.Create(ctx, &MindGameRecord{
		ID:               s.node.Generate().String(),
		UserID:           userID,
		GameID:           game.ID,
		Score:            score,
		TimeTakenSeconds: timeTakenSeconds,
		CoinsEarned:      earned,
	}); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&EducationProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"games_played":       gorm.Expr("games_played + 1"),
			"total_coins_earned": gorm.Expr("total_coins_earned + ?", earned),
		}).Error; err != nil {
		return nil, err
	}

	return &MindGameResult{
		Game:        game.Name,
		Score:       score,
		CoinsEarned: earned,
		TimeTaken:   timeTakenSeconds,
		TimeLimit:   game.TimeLimitSeconds,
	}, nil
}

type LeaderboardEntry struct {
	UserID           string  `json:"user_id"`
	TotalHours       float64 `json:"total_hours"`
	CoursesCompleted int64   `json:"courses_completed"`
	CurrentLevel     string  `json:"current_level"`
}

// Leaderboard ranks learners by accumulated study hours.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	profiles, err := s.profiles.Find(ctx, &EducationProfile{},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "total_learning_hours",
			OrderBy: "desc",
			Allow:   map[string]bool{"total_learning_hours": true},
		}),
		option.WithLimit(limit),
	)
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, &LeaderboardEntry{
			UserID:           p.UserID,
			TotalHours:       p.TotalLearningHours,
			CoursesCompleted: p.CoursesCompleted,
			CurrentLevel:     LevelForHours(p.TotalLearningHours).Name,
		})
	}

	return entries, nil
}

func (s *Service) getOrCreateProfile(ctx context.Context, userID string) (*EducationProfile, error) {
	profile, err := s.profiles.FindOne(ctx, &EducationProfile{UserID: userID})
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &EducationProfile{
		ID:     s.node.Generate().String(),
		UserID: userID,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if existing, ferr := s.profiles.FindOne(ctx, &EducationProfile{UserID: userID}); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	return profile, nil
}

func (s *Service) notify(userID, title, message string) {
	if s.enqueuer == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"user_id":    userID,
		"title":      title,
		"message":    message,
		"type":       "education",
		"action_url": "/education",
	})

	if _, err := s.enqueuer.Enqueue(asynq.NewTask(taskname.NotificationDispatch, payload)); err != nil {
		zap.L().Warn("failed to enqueue education notification", zap.Error(err))
	}
}
