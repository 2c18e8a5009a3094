// internal/workers/matching/normalize-startup-profile/handler.go
package normalizestartupprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finmatch-workers/internal/common/errors"
	"finmatch-workers/internal/common/logger"
	"finmatch-workers/internal/common/metrics"
	"finmatch-workers/internal/engine/profile"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "normalize-startup-profile"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, string(errors.ErrCodeParseError), fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		bpmnErr := errors.ToBPMN(err)
		if errors.IsRetryable(err) && job.Retries > 1 {
			h.retryJob(client, job, bpmnErr.Message)
			return
		}
		h.failJob(client, job, bpmnErr.Code, bpmnErr.Message)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Profile) == 0 {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeProfileParseFailed,
			Message:   "profile is missing or empty",
			Retryable: false,
			Timestamp: time.Now(),
		}
	}

	normalized := profile.Normalize(input.Profile)

	h.logger.Info("profile normalized", map[string]interface{}{
		"stage":   normalized.Stage,
		"state":   normalized.State,
		"sectors": len(normalized.Sectors),
	})

	return &Output{NormalizedProfile: normalized}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

// retryJob hands a retryable failure back to the broker with one retry
// burned, instead of escalating a BPMN error the process must handle.
func (h *Handler) retryJob(client worker.JobClient, job entities.Job, reason string) {
	h.logger.Warn("job failed, retrying via broker", map[string]interface{}{
		"jobKey":           job.Key,
		"retriesRemaining": job.Retries - 1,
		"reason":           reason,
	})

	_, err := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(job.Retries - 1).
		ErrorMessage(reason).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send fail job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
