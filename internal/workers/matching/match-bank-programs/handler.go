// internal/workers/matching/match-bank-programs/handler.go
package matchbankprograms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finmatch-workers/internal/catalog"
	"finmatch-workers/internal/common/errors"
	"finmatch-workers/internal/common/logger"
	"finmatch-workers/internal/common/metrics"
	"finmatch-workers/internal/engine/matching"
	"finmatch-workers/internal/engine/profile"
	"finmatch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "match-bank-programs"
)

type Handler struct {
	config *Config
	loader *catalog.Loader
	logger logger.Logger
}

func NewHandler(config *Config, loader *catalog.Loader, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		loader: loader,
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
	p, err := h.resolveProfile(input)
	if err != nil {
		return nil, err
	}

	programs, err := h.loader.Programs(ctx)
	if err != nil {
		return nil, matchingError(err)
	}

	var programType, bankType interface{}
	if input.Filters != nil {
		programType = input.Filters.ProgramType
		bankType = input.Filters.BankType
	}
	filters := matching.ParseFilters(programType, bankType)
	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	set := matching.Match(p, programs, filters, limit, h.config.Weights)
	for _, m := range set.Matches {
		metrics.MatchScores.WithLabelValues("bank-programs").Observe(float64(m.Score))
	}

	h.logger.Info("bank programs matched", map[string]interface{}{
		"eligible": set.Total,
		"returned": len(set.Matches),
		"topPicks": len(set.TopPicks),
	})

	return &Output{
		MatchRunID: uuid.NewString(),
		Profile:    set.Profile,
		Total:      set.Total,
		Matches:    set.Matches,
		TopPicks:   set.TopPicks,
	}, nil
}

// matchingError scopes failures without a structured code to this worker's
// domain. Structured errors keep theirs.
func matchingError(err error) error {
	if _, ok := errors.AsStandard(err); ok {
		return err
	}
	return errors.NewMatchingError(err.Error())
}

// resolveProfile prefers an upstream normalized profile and falls back to
// normalizing the raw variables inline so the worker also runs standalone.
func (h *Handler) resolveProfile(input *Input) (models.Profile, error) {
	if input.NormalizedProfile != nil {
		return *input.NormalizedProfile, nil
	}
	if len(input.Profile) == 0 {
		return models.Profile{}, &errors.StandardError{
			Code:      errors.ErrCodeProfileParseFailed,
			Message:   "neither normalizedProfile nor profile provided",
			Retryable: false,
			Timestamp: time.Now(),
		}
	}
	return profile.Normalize(input.Profile), nil
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
