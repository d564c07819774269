package task

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer is the write side of the background queue. Services take it
// as an optional fx dependency so they keep working when the worker
// stack is absent (notably in tests, which run without Redis).
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type clientEnqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) Enqueuer {
	return &clientEnqueuer{client: client}
}

func (e *clientEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	info, err := e.client.EnqueueContext(context.Background(), task, opts...)
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	return info, nil
}
