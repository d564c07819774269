package host

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type InstalmentPayload struct {
	BonusID string `json:"bonus_id"`
}

// HandleInstalmentTask pays the deferred half of a high-earner bonus.
func (s *Service) HandleInstalmentTask(ctx context.Context, t *asynq.Task) error {
	var payload InstalmentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		zap.L().Error("malformed instalment payload", zap.Error(err))
		return asynq.SkipRetry
	}

	if err := s.PaySecondInstalment(ctx, payload.BonusID); err != nil {
		zap.L().Error("failed to pay bonus instalment",
			zap.String("bonus_id", payload.BonusID), zap.Error(err))
		return err
	}

	return nil
}
