package withdrawal

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type ProcessPayload struct {
	WithdrawalID string `json:"withdrawal_id"`
}

// HandleProcessTask completes a withdrawal once its processing window
// has elapsed.
func (s *Service) HandleProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		zap.L().Error("malformed withdrawal payload", zap.Error(err))
		return asynq.SkipRetry
	}

	if err := s.Complete(ctx, payload.WithdrawalID); err != nil {
		zap.L().Error("failed to complete withdrawal",
			zap.String("withdrawal_id", payload.WithdrawalID), zap.Error(err))
		return err
	}

	return nil
}
