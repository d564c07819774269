package agency

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DepositPayload is enqueued under taskname.AgencyRecompute whenever a
// user deposits; the handler settles referrer commission out of band.
type DepositPayload struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

func (s *Service) HandleDepositTask(ctx context.Context, t *asynq.Task) error {
	var payload DepositPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		zap.L().Error("malformed agency deposit payload", zap.Error(err))
		return asynq.SkipRetry
	}

	commission, err := s.PayCommission(ctx, payload.UserID, payload.Amount)
	if err != nil {
		zap.L().Error("failed to settle referral commission",
			zap.String("from_user_id", payload.UserID),
			zap.Int64("amount", payload.Amount),
			zap.Error(err))
		return err
	}

	if commission != nil {
		zap.L().Info("referral commission settled",
			zap.String("referrer_id", commission.UserID),
			zap.Int64("amount", commission.Amount),
			zap.Int64("rate", commission.Rate))
	}

	return nil
}
