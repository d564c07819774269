package notification

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/db/pagination"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	notifications repository.Repository[Notification]
}

type ServiceParams struct {
	fx.In

	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		notifications: repository.ProvideStore[Notification](p.DB),
	}
}

type CreateParams struct {
	UserID    string
	Title     string
	Message   string
	Type      string
	ActionURL string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Notification, error) {
	if p.UserID == "" {
		return nil, errutil.BadRequest("user_id is required", nil)
	}

	n := &Notification{
		ID:        s.node.Generate().String(),
		UserID:    p.UserID,
		Title:     p.Title,
		Message:   p.Message,
		Type:      p.Type,
		ActionURL: p.ActionURL,
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

type ListRequest struct {
	pagination.Pagination
	UnreadOnly bool `form:"unread_only"`
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, req ListRequest) ([]*Notification, *pagination.PageInfo, int64, error) {
	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(req.Limit + 1),
	}

	if req.UnreadOnly {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "is_read",
			Operator: option.EQ,
			Value:    false,
		}))
	}

	if req.Cursor != "" {
		cursor, err := pagination.DecodeCursor(req.Cursor)
		if err != nil {
			return nil, nil, 0, errutil.BadRequest("invalid cursor", err)
		}
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "created_at",
			Operator: option.LT,
			Value:    cursor.CreatedAt,
		}))
	}

	rows, err := s.notifications.Find(ctx, &Notification{UserID: userID}, opts...)
	if err != nil {
		return nil, nil, 0, err
	}

	pageInfo := pagination.BuildCursorPageInfo(rows, int32(req.Limit), func(n *Notification) string {
		c, _ := pagination.EncodeCursor(pagination.Cursor{CreatedAt: n.CreatedAt.Format(time.RFC3339Nano), ID: n.ID})
		return c
	})
	if pageInfo.HasMore {
		rows = rows[:req.Limit]
	}

	unread, err := s.unreadCount(ctx, userID)
	if err != nil {
		return nil, nil, 0, err
	}

	return rows, pageInfo, unread, nil
}

// MarkRead flips a notification to read. Re-marking an already read
// notification succeeds without changes.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) (*Notification, error) {
	n, err := s.notifications.FindOne(ctx, &Notification{ID: notificationID, UserID: userID})
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errutil.NotFound("notification not found", nil)
	}

	if n.IsRead {
		return n, nil
	}

	if err := s.notifications.Update(ctx, n.ID, map[string]any{"is_read": true}); err != nil {
		return nil, err
	}
	n.IsRead = true

	return n, nil
}

// MarkAllRead marks every unread notification read and returns how many
// were affected.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *Service) unreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
