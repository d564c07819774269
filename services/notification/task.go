package notification

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DispatchPayload is what producers enqueue under taskname.NotificationDispatch.
type DispatchPayload struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	ActionURL string `json:"action_url,omitempty"`
}

// HandleDispatchTask persists a notification enqueued by another service.
func (s *Service) HandleDispatchTask(ctx context.Context, t *asynq.Task) error {
	var payload DispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		zap.L().Error("malformed notification payload", zap.Error(err))
		return asynq.SkipRetry
	}

	if _, err := s.Create(ctx, CreateParams{
		UserID:    payload.UserID,
		Title:     payload.Title,
		Message:   payload.Message,
		Type:      payload.Type,
		ActionURL: payload.ActionURL,
	}); err != nil {
		zap.L().Error("failed to persist notification",
			zap.String("user_id", payload.UserID),
			zap.Error(err))
		return err
	}

	return nil
}
