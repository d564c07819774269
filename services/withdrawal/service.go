package withdrawal

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/config"
	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/sequence"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/services/vip"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	cfg  *config.Config
	node *snowflake.Node
	seq  sequence.Generator

	wallets  *wallet.Service
	vip      *vip.Service
	storage  *minio.Client
	enqueuer task.Enqueuer

	withdrawals repository.Repository[Withdrawal]
	methods     repository.Repository[PaymentMethod]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Config   *config.Config
	Node     *snowflake.Node
	Sequence sequence.Generator
	Wallet   *wallet.Service
	VIP      *vip.Service
	Storage  *minio.Client `optional:"true"`
	Enqueuer task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		cfg:  p.Config,
		node: p.Node,
		seq:  p.Sequence,

		wallets:  p.Wallet,
		vip:      p.VIP,
		storage:  p.Storage,
		enqueuer: p.Enqueuer,

		withdrawals: repository.ProvideStore[Withdrawal](p.DB),
		methods:     repository.ProvideStore[PaymentMethod](p.DB),
	}
}

// SavePaymentMethod stores a bank or UPI destination for withdrawals.
func (s *Service) SavePaymentMethod(ctx context.Context, userID, methodType string, details map[string]any) (*PaymentMethod, error) {
	if methodType != MethodBank && methodType != MethodUPI {
		return nil, errutil.BadRequest("unknown payment method type", nil)
	}

	b, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	method := &PaymentMethod{
		ID:         s.node.Generate().String(),
		UserID:     userID,
		MethodType: methodType,
		Details:    datatypes.JSON(b),
	}

	if err := s.methods.Create(ctx, method); err != nil {
		return nil, err
	}

	return method, nil
}

func (s *Service) ListPaymentMethods(ctx context.Context, userID string) ([]*PaymentMethod, error) {
	return s.methods.Find(ctx, &PaymentMethod{UserID: userID})
}

type ConfigView struct {
	MinStarsRequired   int64 `json:"min_stars_required"`
	ProcessingDays     int   `json:"processing_time_days"`
	IsEligible         bool  `json:"is_eligible"`
	CurrentStars       int64 `json:"current_stars"`
	StarsNeeded        int64 `json:"stars_needed"`
	IsVIP              bool  `json:"is_vip"`
	RequiresFaceVerify bool  `json:"requires_face_verification"`
}

// GetConfig reports the withdrawal terms and the user's eligibility.
func (s *Service) GetConfig(ctx context.Context, userID string) (*ConfigView, error) {
	w, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	isVIP, err := s.isVIP(ctx, userID)
	if err != nil {
		return nil, err
	}

	days := ProcessingDays
	if isVIP {
		days = VIPProcessingDays
	}

	needed := MinStarsRequired - w.StarsBalance
	if needed < 0 {
		needed = 0
	}

	return &ConfigView{
		MinStarsRequired:   MinStarsRequired,
		ProcessingDays:     days,
		IsEligible:         w.StarsBalance >= MinStarsRequired,
		CurrentStars:       w.StarsBalance,
		StarsNeeded:        needed,
		IsVIP:              isVIP,
		RequiresFaceVerify: true,
	}, nil
}

// Request opens a withdrawal: the stars leave the balance immediately
// and the transaction stays pending until the payout settles.
func (s *Service) Request(ctx context.Context, userID string, amount int64, paymentMethodID string) (*Withdrawal, error) {
	if amount <= 0 {
		return nil, errutil.BadRequest("amount must be positive", nil)
	}

	w, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w.StarsBalance < MinStarsRequired {
		return nil, errutil.BadRequest(
			fmt.Sprintf("minimum %d stars required for withdrawal", MinStarsRequired), nil)
	}

	method, err := s.methods.FindOne(ctx, &PaymentMethod{ID: paymentMethodID, UserID: userID})
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, errutil.NotFound("payment method not found", nil)
	}

	isVIP, err := s.isVIP(ctx, userID)
	if err != nil {
		return nil, err
	}
	days := ProcessingDays
	if isVIP {
		days = VIPProcessingDays
	}

	code, err := s.seq.NextWithdrawalCode(ctx)
	if err != nil {
		return nil, err
	}

	wd := &Withdrawal{
		ID:                  s.node.Generate().String(),
		Code:                code,
		UserID:              userID,
		Amount:              amount,
		Status:              StatusPending,
		PaymentMethodID:     method.ID,
		PaymentMethodType:   method.MethodType,
		PaymentDetails:      method.Details,
		IsVIP:               isVIP,
		EstimatedCompletion: time.Now().Add(time.Duration(days) * 24 * time.Hour),
	}

	txn, err := s.wallets.Debit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubStars,
		Amount:      amount,
		Type:        wallet.TypeWithdrawal,
		Status:      wallet.StatusPending,
		Description: fmt.Sprintf("Withdrawal request of %d stars", amount),
		Metadata:    map[string]any{"withdrawal_id": wd.ID},
	})
	if err != nil {
		return nil, err
	}
	wd.TransactionID = txn.ID

	if err := s.withdrawals.Create(ctx, wd); err != nil {
		return nil, err
	}

	return wd, nil
}

// VerifyFace stores the user's verification image and moves the
// withdrawal into processing; completion is scheduled after the
// processing window.
func (s *Service) VerifyFace(ctx context.Context, userID, withdrawalID string, file multipart.File, size int64, contentType string) (*Withdrawal, error) {
	wd, err := s.withdrawals.FindOne(ctx, &Withdrawal{ID: withdrawalID, UserID: userID})
	if err != nil {
		return nil, err
	}
	if wd == nil {
		return nil, errutil.NotFound("withdrawal not found", nil)
	}
	if wd.Status != StatusPending {
		return nil, errutil.BadRequest("withdrawal cannot be verified", nil)
	}

	objectName := fmt.Sprintf("face-verify/%s/%s", userID, wd.ID)
	if s.storage != nil && file != nil {
		if _, err := s.storage.PutObject(ctx, s.cfg.Minio.BucketName, objectName, file, size,
			minio.PutObjectOptions{ContentType: contentType}); err != nil {
			return nil, errutil.Internal("failed to store verification image", err)
		}
	}

	if err := s.withdrawals.Update(ctx, wd.ID, map[string]any{
		"face_verified":     true,
		"status":            StatusProcessing,
		"face_image_object": objectName,
	}); err != nil {
		return nil, err
	}
	wd.FaceVerified = true
	wd.Status = StatusProcessing

	s.scheduleCompletion(wd)

	return wd, nil
}

// Cancel refunds a withdrawal that has not completed.
func (s *Service) Cancel(ctx context.Context, userID, withdrawalID string) (*Withdrawal, error) {
	wd, err := s.withdrawals.FindOne(ctx, &Withdrawal{ID: withdrawalID, UserID: userID})
	if err != nil {
		return nil, err
	}
	if wd == nil {
		return nil, errutil.NotFound("withdrawal not found", nil)
	}
	if wd.Status != StatusPending && wd.Status != StatusProcessing {
		return nil, errutil.BadRequest("withdrawal cannot be cancelled", nil)
	}

	if err := s.withdrawals.Update(ctx, wd.ID, map[string]any{"status": StatusCancelled}); err != nil {
		return nil, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubStars,
		Amount:      wd.Amount,
		Type:        wallet.TypeWithdrawal,
		Description: fmt.Sprintf("Withdrawal %s cancelled, stars returned", wd.Code),
		Metadata:    map[string]any{"withdrawal_id": wd.ID},
	}); err != nil {
		return nil, err
	}

	if wd.TransactionID != "" {
		if err := s.wallets.UpdateTransactionStatus(ctx, wd.TransactionID, wallet.StatusFailed); err != nil {
			zap.L().Warn("failed to fail withdrawal transaction", zap.String("transaction_id", wd.TransactionID), zap.Error(err))
		}
	}

	wd.Status = StatusCancelled
	return wd, nil
}

// Complete finalizes a processing withdrawal.
func (s *Service) Complete(ctx context.Context, withdrawalID string) error {
	wd, err := s.withdrawals.FindOne(ctx, &Withdrawal{ID: withdrawalID})
	if err != nil {
		return err
	}
	if wd == nil {
		return errutil.NotFound("withdrawal not found", nil)
	}
	if wd.Status != StatusProcessing {
		// cancelled or already settled since scheduling
		return nil
	}

	if err := s.withdrawals.Update(ctx, wd.ID, map[string]any{"status": StatusCompleted}); err != nil {
		return err
	}

	if wd.TransactionID != "" {
		if err := s.wallets.UpdateTransactionStatus(ctx, wd.TransactionID, wallet.StatusCompleted); err != nil {
			return err
		}
	}

	return s.wallets.AddWithdrawn(ctx, wd.UserID, wd.Amount)
}

// History lists the user's withdrawals, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return s.withdrawals.Find(ctx, &Withdrawal{UserID: userID},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(limit),
	)
}

func (s *Service) isVIP(ctx context.Context, userID string) (bool, error) {
	status, err := s.vip.GetStatus(ctx, userID)
	if err != nil {
		return false, err
	}
	return status.Level >= 1, nil
}

func (s *Service) scheduleCompletion(wd *Withdrawal) {
	if s.enqueuer == nil {
		return
	}

	delay := time.Until(wd.EstimatedCompletion)
	if delay < 0 {
		delay = 0
	}

	payload, _ := json.Marshal(map[string]string{"withdrawal_id": wd.ID})
	if _, err := s.enqueuer.Enqueue(
		asynq.NewTask(taskname.WithdrawalProcess, payload),
		asynq.ProcessIn(delay),
		asynq.Queue("critical"),
	); err != nil {
		zap.L().Error("failed to schedule withdrawal completion",
			zap.String("withdrawal_id", wd.ID), zap.Error(err))
	}
}
