package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/skip2/go-qrcode"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/config"
	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/sequence"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	cfg  *config.Config
	node *snowflake.Node
	seq  sequence.Generator

	wallets *wallet.Service

	links repository.Repository[PaymentLink]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Config   *config.Config
	Node     *snowflake.Node
	Sequence sequence.Generator
	Wallet   *wallet.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		cfg:  p.Config,
		node: p.Node,
		seq:  p.Sequence,

		wallets: p.Wallet,

		links: repository.ProvideStore[PaymentLink](p.DB),
	}
}

// CreateLink issues a short-lived payment link for a coin deposit.
func (s *Service) CreateLink(ctx context.Context, userID string, amount int64) (*PaymentLink, error) {
	if amount <= 0 {
		return nil, errutil.BadRequest("amount must be positive", nil)
	}
	if amount > wallet.MaxDepositAmount {
		return nil, errutil.BadRequest(
			fmt.Sprintf("maximum deposit is %d coins", wallet.MaxDepositAmount), nil)
	}

	code, err := s.seq.NextPaymentCode(ctx)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(s.cfg.Payment.LinkBaseURL, "/")
	link := &PaymentLink{
		ID:        s.node.Generate().String(),
		Code:      code,
		UserID:    userID,
		Amount:    amount,
		Status:    StatusCreated,
		LinkURL:   fmt.Sprintf("%s/pay/%s", base, code),
		ExpiresAt: time.Now().Add(LinkTTL),
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// QRCode renders the payment link as a PNG.
func (s *Service) QRCode(ctx context.Context, code string, size int) ([]byte, error) {
	link, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if size <= 0 || size > 1024 {
		size = 256
	}

	png, err := qrcode.Encode(link.LinkURL, qrcode.Medium, size)
	if err != nil {
		return nil, errutil.Internal("failed to render qr code", err)
	}

	return png, nil
}

// Confirm settles a payment link and credits the deposit.
func (s *Service) Confirm(ctx context.Context, code string) (*PaymentLink, error) {
	link, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	switch link.Status {
	case StatusPaid:
		return link, nil
	case StatusCancelled, StatusExpired:
		return nil, errutil.BadRequest("payment link is no longer payable", nil)
	}

	if time.Now().After(link.ExpiresAt) {
		if err := s.links.Update(ctx, link.ID, map[string]any{"status": StatusExpired}); err != nil {
			return nil, err
		}
		return nil, errutil.BadRequest("payment link has expired", nil)
	}

	_, txn, err := s.wallets.Deposit(ctx, link.UserID, link.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.links.Update(ctx, link.ID, map[string]any{
		"status":         StatusPaid,
		"paid_at":        now,
		"transaction_id": txn.ID,
	}); err != nil {
		return nil, err
	}
	link.Status = StatusPaid
	link.PaidAt = &now
	link.TransactionID = txn.ID

	return link, nil
}

// Cancel voids an unpaid link.
func (s *Service) Cancel(ctx context.Context, userID, code string) (*PaymentLink, error) {
	link, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link.UserID != userID {
		return nil, errutil.Forbidden("not your payment link", nil)
	}
	if link.Status != StatusCreated {
		return nil, errutil.BadRequest("payment link cannot be cancelled", nil)
	}

	if err := s.links.Update(ctx, link.ID, map[string]any{"status": StatusCancelled}); err != nil {
		return nil, err
	}
	link.Status = StatusCancelled

	return link, nil
}

// History lists the user's payment links, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*PaymentLink, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return s.links.Find(ctx, &PaymentLink{UserID: userID},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(limit),
	)
}

func (s *Service) findByCode(ctx context.Context, code string) (*PaymentLink, error) {
	link, err := s.links.FindOne(ctx, &PaymentLink{Code: code})
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, errutil.NotFound("payment link not found", nil)
	}
	return link, nil
}
