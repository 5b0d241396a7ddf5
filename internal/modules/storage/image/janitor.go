package image

import (
	"context"
	"encoding/json"
	"time"

	"github.com/easy-read/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// Janitor drains due gc tasks from the durable queue. Work survives process
// restarts because the queue lives in Redis, not memory.
type Janitor struct {
	svc    *Service
	queue  *taskqueue.Service
	logger *zap.Logger
}

func NewJanitor(svc *Service, queue *taskqueue.Service, logger *zap.Logger) *Janitor {
	return &Janitor{svc: svc, queue: queue, logger: logger}
}

// Run processes every due task once. It is registered as an interval job.
func (j *Janitor) Run(ctx context.Context) error {
	tasks, err := j.queue.Due(ctx, time.Now(), 100)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if task.Type != TaskTypeImageGC {
			continue
		}
		if err := j.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskRunning, ""); err != nil {
			return err
		}

		var payload gcPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			j.logger.Error("malformed gc task", zap.String("task_id", task.ID), zap.Error(err))
			_ = j.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskFailed, err.Error())
			continue
		}

		if err := j.svc.Collect(ctx, payload.ImageID); err != nil {
			j.logger.Error("image gc failed",
				zap.String("task_id", task.ID),
				zap.String("image_id", payload.ImageID),
				zap.Error(err))
			_ = j.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskFailed, err.Error())
			continue
		}
		if err := j.queue.UpdateStatus(ctx, task.ID, taskqueue.TaskCompleted, ""); err != nil {
			return err
		}
	}
	return nil
}
