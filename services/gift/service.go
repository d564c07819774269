package gift

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
	"gyansultanat-platform/pkg/db/pagination"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/services/auth"
	"gyansultanat-platform/services/charity"
	"gyansultanat-platform/services/crown"
	"gyansultanat-platform/services/host"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	wallets  *wallet.Service
	charity  *charity.Service
	hosts    *host.Service
	crowns   *crown.Service
	enqueuer task.Enqueuer

	users   repository.Repository[auth.User]
	records repository.Repository[GiftRecord]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Node     *snowflake.Node
	Wallet   *wallet.Service
	Charity  *charity.Service
	Host     *host.Service
	Crown    *crown.Service
	Enqueuer task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		wallets:  p.Wallet,
		charity:  p.Charity,
		hosts:    p.Host,
		crowns:   p.Crown,
		enqueuer: p.Enqueuer,

		users:   repository.ProvideStore[auth.User](p.DB),
		records: repository.ProvideStore[GiftRecord](p.DB),
	}
}

type SendParams struct {
	SenderID   string
	ReceiverID string
	GiftID     string
	Quantity   int
	Message    string
}

// Send debits the sender's coins for the gift, credits the receiver in
// stars net of the charity cut, and books the cut against the pool.
func (s *Service) Send(ctx context.Context, p SendParams) (*GiftRecord, error) {
	if p.Quantity <= 0 {
		p.Quantity = 1
	}

	g, ok := ByID(p.GiftID)
	if !ok {
		return nil, errutil.NotFound("gift not found", nil)
	}

	if p.ReceiverID == p.SenderID {
		return nil, errutil.BadRequest("cannot send gift to yourself", nil)
	}

	receiver, err := s.users.FindOne(ctx, &auth.User{ID: p.ReceiverID})
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, errutil.NotFound("receiver not found", nil)
	}

	totalCost := g.Price * int64(p.Quantity)
	charityAmount := charity.CutOf(totalCost)
	receiverAmount := totalCost - charityAmount

	record := &GiftRecord{
		ID:            s.node.Generate().String(),
		SenderID:      p.SenderID,
		ReceiverID:    p.ReceiverID,
		GiftID:        g.ID,
		GiftName:      g.Name,
		GiftPrice:     g.Price,
		Quantity:      p.Quantity,
		TotalValue:    totalCost,
		CharityAmount: charityAmount,
		Message:       p.Message,
	}

	if _, err := s.wallets.Debit(ctx, wallet.Entry{
		UserID:      p.SenderID,
		SubBalance:  wallet.SubCoins,
		Amount:      totalCost,
		Type:        wallet.TypeGiftSent,
		Description: fmt.Sprintf("Sent %dx %s to %s", p.Quantity, g.Name, receiver.Name),
		Metadata:    map[string]any{"gift_record_id": record.ID},
	}); err != nil {
		return nil, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      p.ReceiverID,
		SubBalance:  wallet.SubStars,
		Amount:      receiverAmount,
		Type:        wallet.TypeGiftReceived,
		Description: fmt.Sprintf("Received %dx %s", p.Quantity, g.Name),
		Metadata:    map[string]any{"gift_record_id": record.ID},
	}); err != nil {
		return nil, err
	}

	if err := s.charity.Record(ctx, p.SenderID, "gift", charityAmount); err != nil {
		zap.L().Error("failed to record gift charity cut",
			zap.String("gift_record_id", record.ID), zap.Error(err))
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	// counts toward the receiver's high-earner threshold
	if err := s.hosts.AddGiftValue(ctx, p.ReceiverID, totalCost); err != nil {
		zap.L().Warn("failed to bump host gift counter",
			zap.String("receiver_id", p.ReceiverID), zap.Error(err))
	}

	// counts toward the sender's gifter crown
	if err := s.crowns.AddGiftsSent(ctx, p.SenderID, totalCost); err != nil {
		zap.L().Warn("failed to bump gifter stat",
			zap.String("sender_id", p.SenderID), zap.Error(err))
	}

	s.notifyReceiver(p.ReceiverID, g, p.Quantity)

	return record, nil
}

type HistoryRequest struct {
	pagination.Pagination
	Direction string `form:"direction"` // sent | received | both
}

// History lists gifts sent or received by the user, newest first.
func (s *Service) History(ctx context.Context, userID string, req HistoryRequest) ([]*GiftRecord, *pagination.PageInfo, error) {
	query := &GiftRecord{}
	switch req.Direction {
	case "sent":
		query.SenderID = userID
	case "received":
		query.ReceiverID = userID
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(req.Limit + 1),
	}

	if req.Direction != "sent" && req.Direction != "received" {
		opts = append(opts, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("sender_id = ? OR receiver_id = ?", userID, userID)
		})
	}

	if req.Cursor != "" {
		cursor, err := pagination.DecodeCursor(req.Cursor)
		if err != nil {
			return nil, nil, errutil.BadRequest("invalid cursor", err)
		}
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "created_at",
			Operator: option.LT,
			Value:    cursor.CreatedAt,
		}))
	}

	rows, err := s.records.Find(ctx, query, opts...)
	if err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(rows, int32(req.Limit), func(r *GiftRecord) string {
		c, _ := pagination.EncodeCursor(pagination.Cursor{CreatedAt: r.CreatedAt.Format(time.RFC3339Nano), ID: r.ID})
		return c
	})
	if pageInfo.HasMore {
		rows = rows[:req.Limit]
	}

	return rows, pageInfo, nil
}

// TotalGiftValueSent sums the lifetime coin value of gifts the user sent.
func (s *Service) TotalGiftValueSent(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&GiftRecord{}).
		Where("sender_id = ?", userID).
		Select("COALESCE(SUM(total_value), 0)").
		Scan(&total).Error
	return total, err
}

func (s *Service) notifyReceiver(receiverID string, g Gift, quantity int) {
	if s.enqueuer == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"user_id":    receiverID,
		"title":      "You received a gift!",
		"message":    fmt.Sprintf("Someone sent you %dx %s.", quantity, g.Name),
		"type":       "gift",
		"action_url": "/gifts",
	})

	if _, err := s.enqueuer.Enqueue(asynq.NewTask(taskname.NotificationDispatch, payload)); err != nil {
		zap.L().Warn("failed to enqueue gift notification", zap.Error(err))
	}
}
