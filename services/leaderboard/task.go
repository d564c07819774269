package leaderboard

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type PayoutPayload struct {
	Period string `json:"period"`
}

// HandlePayoutTask settles a period's leaderboard prizes. Scheduled by
// the worker's cron entries.
func (s *Service) HandlePayoutTask(ctx context.Context, t *asynq.Task) error {
	var payload PayoutPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		zap.L().Error("malformed payout payload", zap.Error(err))
		return asynq.SkipRetry
	}

	if err := s.RunPayout(ctx, payload.Period); err != nil {
		zap.L().Error("failed to run leaderboard payout",
			zap.String("period", payload.Period), zap.Error(err))
		return err
	}

	return nil
}
