// Package worker drives engine runs from bus messages and a periodic
// scheduler.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/openrevenue/harrier/internal/domain"
)

// Runner executes one detection run as of the given time.
type Runner interface {
	Run(ctx context.Context, asOf time.Time) (*domain.EngineRun, error)
}

// Worker listens for run requests on the EventBus and, when the
// scheduler is enabled, triggers runs on a fixed interval.
type Worker struct {
	bus    domain.EventBus
	runner Runner
	cfg    domain.SchedulerConfig
	logger *slog.Logger

	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc

	mu       sync.Mutex
	runCount int
	lastRun  time.Time
}

// NewWorker creates a worker. The bus may be nil, in which case only
// the scheduler operates.
func NewWorker(bus domain.EventBus, runner Runner, cfg domain.SchedulerConfig, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:    bus,
		runner: runner,
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// RunRequest is the payload accepted on the run request topic. An
// absent or zero asOf means "now".
type RunRequest struct {
	AsOf time.Time `json:"asOf,omitempty"`
}

// Start subscribes to run requests and starts the interval scheduler
// when enabled.
func (w *Worker) Start() error {
	if w.bus != nil {
		sub, err := w.bus.Subscribe(w.ctx, domain.TopicRunRequested, w.handleRunRequest)
		if err != nil {
			return err
		}
		w.subscriptions = append(w.subscriptions, sub)
		w.logger.Info("run request worker started", "topic", domain.TopicRunRequested)
	}

	if w.cfg.Enabled {
		interval := time.Duration(w.cfg.IntervalHours) * time.Hour
		if interval <= 0 {
			interval = 24 * time.Hour
		}
		w.wg.Add(1)
		go w.schedule(interval)
		w.logger.Info("run scheduler started", "interval", interval)
	}

	return nil
}

func (w *Worker) handleRunRequest(ctx context.Context, msg *domain.Message) error {
	var req RunRequest
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			w.logger.Error("failed to parse run request", "message_id", msg.ID, "error", err)
			return err
		}
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	return w.runOnce(ctx, asOf, "request")
}

func (w *Worker) schedule(interval time.Duration) {
	defer w.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if err := w.runOnce(w.ctx, time.Now().UTC(), "schedule"); err != nil {
				w.logger.Error("scheduled run failed", "error", err)
			}
		}
	}
}

func (w *Worker) runOnce(ctx context.Context, asOf time.Time, trigger string) error {
	start := time.Now()

	run, err := w.runner.Run(ctx, asOf)
	if err != nil {
		w.logger.Error("engine run failed",
			"trigger", trigger,
			"as_of", asOf,
			"error", err,
		)
		return err
	}

	w.mu.Lock()
	w.runCount++
	w.lastRun = run.FinishedAt
	w.mu.Unlock()

	w.logger.Info("engine run triggered",
		"trigger", trigger,
		"run_id", run.ID,
		"alerts", run.AlertCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Stop cancels the scheduler and drops all subscriptions.
func (w *Worker) Stop() error {
	w.cancel()

	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			w.logger.Error("failed to unsubscribe", "topic", sub.Topic(), "error", err)
		}
	}
	w.subscriptions = nil

	w.wg.Wait()

	w.logger.Info("worker stopped")
	return nil
}

// Stats reports worker activity.
type Stats struct {
	SubscriptionCount int       `json:"subscriptionCount"`
	SchedulerEnabled  bool      `json:"schedulerEnabled"`
	RunCount          int       `json:"runCount"`
	LastRun           time.Time `json:"lastRun,omitempty"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		SchedulerEnabled:  w.cfg.Enabled,
		RunCount:          w.runCount,
		LastRun:           w.lastRun,
	}
}
