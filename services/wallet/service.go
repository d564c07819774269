package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/db/pagination"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/middleware"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/sequence"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/pkg/taskname"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	seq  sequence.Generator

	enqueuer task.Enqueuer

	wallets      repository.Repository[Wallet]
	transactions repository.Repository[WalletTransaction]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Node     *snowflake.Node
	Sequence sequence.Generator
	Enqueuer task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,
		seq:  p.Sequence,

		enqueuer: p.Enqueuer,

		wallets:      repository.ProvideStore[Wallet](p.DB),
		transactions: repository.ProvideStore[WalletTransaction](p.DB),
	}
}

// Entry describes a single balance mutation. Amount is always positive;
// Credit and Debit decide the sign.
type Entry struct {
	UserID      string
	SubBalance  string
	Amount      int64
	Type        string
	Status      string
	Description string
	Metadata    map[string]any
}

// GetOrCreate returns the user's wallet, provisioning it with the
// welcome grant on first access.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*Wallet, error) {
	span := trace.SpanFromContext(ctx)
	opts := []zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	}

	w, err := s.wallets.FindOne(ctx, &Wallet{UserID: userID})
	if err != nil {
		zap.L().With(opts...).Error("failed to query wallet", zap.Error(err))
		return nil, err
	}
	if w != nil {
		return w, nil
	}

	w = &Wallet{
		ID:           s.node.Generate().String(),
		UserID:       userID,
		CoinsBalance: WelcomeCoins,
		BonusBalance: WelcomeBonus,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.wallets.WithTrx(tx).Create(ctx, w); err != nil {
			return err
		}

		code, err := s.seq.NextTransactionCode(ctx)
		if err != nil {
			return err
		}

		return s.transactions.WithTrx(tx).Create(ctx, &WalletTransaction{
			ID:          s.node.Generate().String(),
			Code:        code,
			UserID:      userID,
			Type:        TypeBonus,
			SubBalance:  SubCoins,
			Amount:      WelcomeCoins,
			Status:      StatusCompleted,
			Description: "Welcome grant",
			Channel:     middleware.GetChannel(ctx),
		})
	}); err != nil {
		// lost the race against a concurrent first access
		if existing, ferr := s.wallets.FindOne(ctx, &Wallet{UserID: userID}); ferr == nil && existing != nil {
			return existing, nil
		}
		zap.L().With(opts...).Error("failed to provision wallet", zap.Error(err))
		return nil, err
	}

	s.notify(userID, "Welcome to Gyan Sultanat",
		fmt.Sprintf("Your wallet is ready with %d coins and %d bonus coins.", WelcomeCoins, WelcomeBonus), "welcome")

	return w, nil
}

// Credit adds e.Amount to the given sub-balance and records a transaction.
func (s *Service) Credit(ctx context.Context, e Entry) (*WalletTransaction, error) {
	if e.Amount <= 0 {
		return nil, errutil.BadRequest("amount must be positive", nil)
	}

	col, err := columnFor(e.SubBalance)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetOrCreate(ctx, e.UserID); err != nil {
		return nil, err
	}

	var txn *WalletTransaction
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Wallet{}).
			Where("user_id = ?", e.UserID).
			Update(col, gorm.Expr(col+" + ?", e.Amount))
		if res.Error != nil {
			return res.Error
		}

		txn, err = s.record(ctx, tx, e)
		return err
	}); err != nil {
		zap.L().Error("failed to credit wallet",
			zap.String("user_id", e.UserID),
			zap.String("sub_balance", e.SubBalance),
			zap.Error(err))
		return nil, err
	}

	return txn, nil
}

// Debit subtracts e.Amount from the given sub-balance, failing without
// side effects when the balance is insufficient. The balance check and
// the decrement are a single conditional UPDATE, so concurrent debits
// can never take a wallet negative.
func (s *Service) Debit(ctx context.Context, e Entry) (*WalletTransaction, error) {
	if e.Amount <= 0 {
		return nil, errutil.BadRequest("amount must be positive", nil)
	}

	col, err := columnFor(e.SubBalance)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetOrCreate(ctx, e.UserID); err != nil {
		return nil, err
	}

	var txn *WalletTransaction
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Wallet{}).
			Where("user_id = ? AND "+col+" >= ?", e.UserID, e.Amount).
			Update(col, gorm.Expr(col+" - ?", e.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errutil.BadRequest(fmt.Sprintf("insufficient %s balance", e.SubBalance), nil)
		}

		txn, err = s.record(ctx, tx, e)
		return err
	}); err != nil {
		return nil, err
	}

	return txn, nil
}

// Hold moves a stake from coins into the held balance without writing a
// transaction row. Game services release it on settlement.
func (s *Service) Hold(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return errutil.BadRequest("amount must be positive", nil)
	}

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Wallet{}).
			Where("user_id = ? AND coins_balance >= ?", userID, amount).
			Updates(map[string]any{
				"coins_balance": gorm.Expr("coins_balance - ?", amount),
				"held_balance":  gorm.Expr("held_balance + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errutil.BadRequest("insufficient coins balance", nil)
		}
		return nil
	})
}

// ReleaseHeld drops amount from the held balance. Payouts are credited
// separately by the caller.
func (s *Service) ReleaseHeld(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return errutil.BadRequest("amount must be positive", nil)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Wallet{}).
			Where("user_id = ? AND held_balance >= ?", userID, amount).
			Update("held_balance", gorm.Expr("held_balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errutil.UnprocessableEntity("held balance below release amount", nil)
		}
		return nil
	})
}

// Deposit tops up the coins balance. Amounts above MaxDepositAmount are
// rejected up front.
func (s *Service) Deposit(ctx context.Context, userID string, amount int64) (*Wallet, *WalletTransaction, error) {
	if amount <= 0 {
		return nil, nil, errutil.BadRequest("amount must be positive", nil)
	}
	if amount > MaxDepositAmount {
		return nil, nil, errutil.BadRequest(fmt.Sprintf("deposit exceeds maximum of %d", MaxDepositAmount), nil)
	}

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return nil, nil, err
	}

	var txn *WalletTransaction
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Wallet{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"coins_balance":   gorm.Expr("coins_balance + ?", amount),
				"total_deposited": gorm.Expr("total_deposited + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}

		var err error
		txn, err = s.record(ctx, tx, Entry{
			UserID:      userID,
			SubBalance:  SubCoins,
			Amount:      amount,
			Type:        TypeDeposit,
			Description: "Coin deposit",
		})
		return err
	}); err != nil {
		return nil, nil, err
	}

	w, err := s.wallets.FindOne(ctx, &Wallet{UserID: userID})
	if err != nil {
		return nil, nil, err
	}

	s.notify(userID, "Deposit received", fmt.Sprintf("%d coins were added to your wallet.", amount), "deposit")

	// referral commission settles asynchronously off the deposit
	if s.enqueuer != nil {
		payload, _ := json.Marshal(map[string]any{"user_id": userID, "amount": amount})
		if _, err := s.enqueuer.Enqueue(asynq.NewTask(taskname.AgencyRecompute, payload)); err != nil {
			zap.L().Warn("failed to enqueue commission settlement", zap.Error(err))
		}
	}

	return w, txn, nil
}

// Transfer moves funds between two of the user's own sub-balances.
func (s *Service) Transfer(ctx context.Context, userID, from, to string, amount int64) (*Wallet, error) {
	if amount <= 0 {
		return nil, errutil.BadRequest("amount must be positive", nil)
	}
	if from == to {
		return nil, errutil.BadRequest("source and destination sub-balance must differ", nil)
	}
	if !transferableSubs[from] || !transferableSubs[to] {
		return nil, errutil.BadRequest("unknown sub-balance", nil)
	}

	fromCol := subColumns[from]
	toCol := subColumns[to]

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Wallet{}).
			Where("user_id = ? AND "+fromCol+" >= ?", userID, amount).
			Updates(map[string]any{
				fromCol: gorm.Expr(fromCol+" - ?", amount),
				toCol:   gorm.Expr(toCol+" + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errutil.BadRequest(fmt.Sprintf("insufficient %s balance", from), nil)
		}

		_, err := s.record(ctx, tx, Entry{
			UserID:      userID,
			SubBalance:  from,
			Amount:      amount,
			Type:        TypeTransfer,
			Description: fmt.Sprintf("Transfer %s to %s", from, to),
			Metadata:    map[string]any{"from": from, "to": to},
		})
		return err
	}); err != nil {
		return nil, err
	}

	return s.wallets.FindOne(ctx, &Wallet{UserID: userID})
}

// AddWithdrawn bumps the lifetime withdrawn counter after a withdrawal
// completes.
func (s *Service) AddWithdrawn(ctx context.Context, userID string, amount int64) error {
	return s.db.WithContext(ctx).Model(&Wallet{}).
		Where("user_id = ?", userID).
		Update("total_withdrawn", gorm.Expr("total_withdrawn + ?", amount)).Error
}

// UpdateTransactionStatus transitions a pending transaction.
func (s *Service) UpdateTransactionStatus(ctx context.Context, txnID, status string) error {
	return s.transactions.Update(ctx, txnID, map[string]any{"status": status})
}

type ListTransactionsRequest struct {
	pagination.Pagination
	Type string `form:"type"`
}

// ListTransactions returns the user's transaction log, newest first,
// cursor-paginated.
func (s *Service) ListTransactions(ctx context.Context, userID string, req ListTransactionsRequest) ([]*WalletTransaction, *pagination.PageInfo, error) {
	query := &WalletTransaction{UserID: userID, Type: req.Type}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(req.Limit + 1),
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

	rows, err := s.transactions.Find(ctx, query, opts...)
	if err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(rows, int32(req.Limit), func(t *WalletTransaction) string {
		c, _ := pagination.EncodeCursor(pagination.Cursor{CreatedAt: t.CreatedAt.Format(time.RFC3339Nano), ID: t.ID})
		return c
	})
	if pageInfo.HasMore {
		rows = rows[:req.Limit]
	}

	return rows, pageInfo, nil
}

func (s *Service) record(ctx context.Context, tx *gorm.DB, e Entry) (*WalletTransaction, error) {
	code, err := s.seq.NextTransactionCode(ctx)
	if err != nil {
		return nil, err
	}

	status := e.Status
	if status == "" {
		status = StatusCompleted
	}

	txn := &WalletTransaction{
		ID:          s.node.Generate().String(),
		Code:        code,
		UserID:      e.UserID,
		Type:        e.Type,
		SubBalance:  e.SubBalance,
		Amount:      e.Amount,
		Status:      status,
		Description: e.Description,
		Channel:     middleware.GetChannel(ctx),
	}

	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, err
		}
		txn.Metadata = datatypes.JSON(b)
	}

	if err := s.transactions.WithTrx(tx).Create(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

func (s *Service) notify(userID, title, message, kind string) {
	if s.enqueuer == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"user_id": userID,
		"title":   title,
		"message": message,
		"type":    kind,
	})

	if _, err := s.enqueuer.Enqueue(asynq.NewTask(taskname.NotificationDispatch, payload)); err != nil {
		zap.L().Warn("failed to enqueue notification", zap.String("user_id", userID), zap.Error(err))
	}
}
