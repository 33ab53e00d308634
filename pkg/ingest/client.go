// Package ingest drives a single video submission through a remote provider:
// create a workspace, submit the URL, poll until the task settles and generate text.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/aretw0/vidnote/pkg/core"
)

const (
	// DefaultPollInterval is the delay between two status requests.
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxWait bounds the whole poll loop.
	DefaultMaxWait = 30 * time.Minute
)

// Policy bounds the poll loop. Zero MaxAttempts or MaxWait disables that limit.
type Policy struct {
	PollInterval time.Duration
	MaxAttempts  int
	MaxWait      time.Duration
}

// DefaultPolicy polls every 5s for at most 30 minutes.
func DefaultPolicy() Policy {
	return Policy{PollInterval: DefaultPollInterval, MaxWait: DefaultMaxWait}
}

// Client wraps a Provider into one submit-and-analyze operation.
type Client struct {
	provider Provider
	policy   Policy
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithPolicy overrides the poll policy.
func WithPolicy(p Policy) Option {
	return func(c *Client) {
		if p.PollInterval <= 0 {
			p.PollInterval = DefaultPollInterval
		}
		c.policy = p
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for provider.
func NewClient(provider Provider, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		policy:   DefaultPolicy(),
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the active poll policy.
func (c *Client) Policy() Policy {
	return c.policy
}

// SubmitAndAnalyze indexes videoURL in a fresh workspace, waits for the provider to finish
// and returns the text generated for prompt.
//
// Failures are reported as *core.IngestionError (matching core.ErrIngestion), except an
// exhausted poll policy, which matches core.ErrTimeout. observer may be nil; it is called
// synchronously with every status, so all calls have happened when this returns.
func (c *Client) SubmitAndAnalyze(ctx context.Context, videoURL, prompt string, observer Observer) (string, error) {
	indexName := c.indexName()
	indexID, err := c.provider.CreateIndex(ctx, indexName)
	if err != nil {
		return "", &core.IngestionError{Err: fmt.Errorf("create index: %w", err)}
	}
	c.logger.Debug("index created", "index", indexID, "name", indexName)

	taskID, err := c.provider.SubmitURL(ctx, indexID, videoURL)
	if err != nil {
		return "", &core.IngestionError{Err: fmt.Errorf("submit %s: %w", videoURL, err)}
	}
	c.logger.Info("video submitted", "task", taskID, "url", videoURL)

	notify := notifier{observer: observer, logger: c.logger}
	notify.send(core.IngestionTask{TaskID: taskID, IndexID: indexID, Status: core.TaskSubmitted})

	task, err := c.poll(ctx, taskID, notify)
	if err != nil {
		return "", err
	}

	if task.Status == core.TaskFailed {
		c.logger.Warn("video processing failed", "task", taskID, "status", task.ProviderStatus)
		return "", &core.IngestionError{
			TaskID:         taskID,
			Status:         task.Status,
			ProviderStatus: task.ProviderStatus,
		}
	}
	if task.AssetID == "" {
		return "", &core.IngestionError{
			TaskID: taskID,
			Status: task.Status,
			Err:    errors.New("provider reported ready without an asset id"),
		}
	}

	text, err := c.provider.GenerateText(ctx, task.AssetID, prompt)
	if err != nil {
		return "", &core.IngestionError{
			TaskID: taskID,
			Status: task.Status,
			Err:    fmt.Errorf("generate text for asset %s: %w", task.AssetID, err),
		}
	}
	c.logger.Info("analysis generated", "task", taskID, "asset", task.AssetID, "bytes", len(text))
	return text, nil
}

// poll requests the task status once per interval until it is terminal or the policy runs out.
func (c *Client) poll(parent context.Context, taskID string, notify notifier) (core.IngestionTask, error) {
	limiter := rate.NewLimiter(rate.Every(c.policy.PollInterval), 1)
	ctx := parent
	if c.policy.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.policy.MaxWait)
		defer cancel()
	}
	started := c.now()

	var last core.IngestionTask
	for attempt := 1; ; attempt++ {
		if c.policy.MaxAttempts > 0 && attempt > c.policy.MaxAttempts {
			return last, c.timeout(taskID, last, attempt-1, started)
		}
		if err := limiter.Wait(ctx); err != nil {
			return last, c.waitError(parent, taskID, last, attempt-1, started, err)
		}

		task, err := c.provider.TaskStatus(ctx, taskID)
		if err != nil {
			if parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return last, c.timeout(taskID, last, attempt, started)
			}
			return last, &core.IngestionError{
				TaskID: taskID,
				Status: last.Status,
				Err:    fmt.Errorf("fetch task status: %w", err),
			}
		}
		task.TaskID = taskID
		last = task
		c.logger.Debug("task polled", "task", taskID, "attempt", attempt, "status", task.Status, "provider_status", task.ProviderStatus)
		notify.send(task)

		if task.Status.Terminal() {
			return task, nil
		}
	}
}

// waitError classifies a limiter failure: an exhausted MaxWait is a timeout,
// anything else is the caller's context ending.
func (c *Client) waitError(parent context.Context, taskID string, last core.IngestionTask, attempts int, started time.Time, err error) error {
	if parent.Err() != nil || c.policy.MaxWait <= 0 || c.parentExpiresFirst(parent, started) {
		return &core.IngestionError{TaskID: taskID, Status: last.Status, Err: err}
	}
	// rate.Limiter fails early when the next token lies beyond the deadline.
	return c.timeout(taskID, last, attempts, started)
}

func (c *Client) parentExpiresFirst(parent context.Context, started time.Time) bool {
	d, ok := parent.Deadline()
	return ok && d.Before(started.Add(c.policy.MaxWait))
}

func (c *Client) timeout(taskID string, last core.IngestionTask, attempts int, started time.Time) error {
	status := last.Status
	if status == "" {
		status = core.TaskSubmitted
	}
	c.logger.Warn("gave up waiting for task", "task", taskID, "attempts", attempts, "status", status)
	return fmt.Errorf("%w: task %s still %s after %d polls in %s",
		core.ErrTimeout, taskID, status, attempts, c.now().Sub(started).Round(time.Millisecond))
}

func (c *Client) indexName() string {
	return fmt.Sprintf("index_%s_%s", c.now().Format("20060102150405"), uuid.NewString()[:8])
}
