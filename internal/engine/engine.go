// Package engine orchestrates a full detection run: aggregation, cohort
// statistics, parallel detector evaluation, screening rules, composite
// scoring and atomic persistence.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openrevenue/harrier/internal/cohort"
	"github.com/openrevenue/harrier/internal/compliance"
	"github.com/openrevenue/harrier/internal/composite"
	"github.com/openrevenue/harrier/internal/detector"
	"github.com/openrevenue/harrier/internal/domain"
	"github.com/openrevenue/harrier/internal/rules"
)

const defaultMaxWorkers = 10

// runLockKey guards against overlapping runs on the same store.
const runLockKey = "harrier:run:active"

// Engine runs the detection pipeline end to end.
type Engine struct {
	cfg        *domain.Config
	repo       domain.Repository
	cache      domain.Cache
	bus        domain.EventBus
	rules      *rules.Engine
	aggregator *compliance.Aggregator
	scorer     *composite.Scorer
	detectors  []detector.Detector
	logger     *slog.Logger
	maxWorkers int
}

// New creates an engine. The cache and bus may be nil for embedded or
// test use; the repository is required.
func New(cfg *domain.Config, repo domain.Repository, cache domain.Cache, bus domain.EventBus, ruleEngine *rules.Engine, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:        cfg,
		repo:       repo,
		cache:      cache,
		bus:        bus,
		rules:      ruleEngine,
		aggregator: compliance.NewAggregator(cfg.Thresholds),
		scorer:     composite.NewScorer(cfg.Thresholds.AlertScoreFloor),
		detectors:  detector.BuiltIn(),
		logger:     logger,
		maxWorkers: defaultMaxWorkers,
	}
}

// Run executes one detection run over the data as of the given time and
// persists the outcome. The result is all-or-nothing: a failure anywhere
// leaves the previous run's snapshots and alerts untouched.
func (e *Engine) Run(ctx context.Context, asOf time.Time) (*domain.EngineRun, error) {
	if e.cache != nil {
		active, err := e.cache.IncrementCounter(ctx, runLockKey, 30*time.Minute)
		if err == nil && active > 1 {
			return nil, fmt.Errorf("%w: another run is in progress", domain.ErrRunAborted)
		}
		defer e.cache.Delete(ctx, runLockKey)
	}

	run := &domain.EngineRun{
		ID:        uuid.New().String(),
		AsOf:      asOf,
		StartedAt: time.Now().UTC(),
		Status:    domain.RunRunning,
	}
	if err := e.repo.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run start: %w", err)
	}

	result, err := e.execute(ctx, run)
	run.FinishedAt = time.Now().UTC()
	run.DurationMs = run.FinishedAt.Sub(run.StartedAt).Milliseconds()

	if err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
		if saveErr := e.repo.SaveRun(ctx, run); saveErr != nil {
			e.logger.Error("failed to record run failure", "run_id", run.ID, "error", saveErr)
		}
		e.publish(ctx, domain.TopicRunFailed, run)
		return run, err
	}

	run.Status = domain.RunCompleted
	run.SnapshotCount = len(result.Snapshots)
	run.AlertCount = len(result.Alerts)
	if err := e.repo.SaveRun(ctx, run); err != nil {
		return run, fmt.Errorf("failed to record run completion: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Invalidate(ctx, "harrier:query:"); err != nil {
			e.logger.Warn("cache invalidation failed", "error", err)
		}
	}
	e.publish(ctx, domain.TopicRunCompleted, run)
	e.publishCriticalAlerts(ctx, run, result.Alerts)

	e.logger.Info("engine run completed",
		"run_id", run.ID,
		"taxpayers", run.TaxpayerCount,
		"signals", run.SignalCount,
		"alerts", run.AlertCount,
		"duration_ms", run.DurationMs)

	return run, nil
}

func (e *Engine) execute(ctx context.Context, run *domain.EngineRun) (*domain.RunResult, error) {
	ds, err := e.repo.LoadDataset(ctx, run.AsOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	run.TaxpayerCount = len(ds.Taxpayers)

	if err := validateDataset(ds); err != nil {
		return nil, err
	}

	if e.rules != nil {
		e.loadScreeningRules(ctx)
	}

	result, signalCount := e.evaluate(ctx, run, ds)
	run.SignalCount = signalCount

	if err := e.repo.SaveRunResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist run result: %w", err)
	}
	return result, nil
}

// evaluate computes snapshots and cohorts, then fans taxpayers out across
// a bounded worker pool. Every detector for every taxpayer finishes
// before composite scoring starts, so the final ranking is total.
func (e *Engine) evaluate(ctx context.Context, run *domain.EngineRun, ds *domain.Dataset) (*domain.RunResult, int) {
	snapshots := e.aggregator.BuildAll(ds)
	cohortIdx := cohort.Build(ds.Taxpayers, snapshots)

	snapByTaxpayer := make(map[string]*domain.ComplianceSnapshot, len(snapshots))
	for i := range snapshots {
		snapByTaxpayer[snapshots[i].TaxpayerID] = &snapshots[i]
	}
	filingsByTaxpayer := make(map[string][]domain.FilingRecord)
	for _, f := range ds.Filings {
		filingsByTaxpayer[f.TaxpayerID] = append(filingsByTaxpayer[f.TaxpayerID], f)
	}
	paymentsByTaxpayer := make(map[string][]domain.PaymentRecord)
	for _, p := range ds.Payments {
		paymentsByTaxpayer[p.TaxpayerID] = append(paymentsByTaxpayer[p.TaxpayerID], p)
	}
	openAlerts, maxScores := priorAlertStats(ds.PriorAlerts)

	// Signals collected per taxpayer index, flattened in taxpayer order
	// afterwards, so goroutine completion order cannot leak into output.
	perTaxpayer := make([][]domain.FraudSignal, len(ds.Taxpayers))
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.maxWorkers)

	for i := range ds.Taxpayers {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			tp := &ds.Taxpayers[idx]
			snap := snapByTaxpayer[tp.ID]
			in := &detector.Input{
				AsOf:           ds.AsOf,
				Taxpayer:       tp,
				Snapshot:       snap,
				Filings:        filingsByTaxpayer[tp.ID],
				Payments:       paymentsByTaxpayer[tp.ID],
				OpenAlertCount: openAlerts[tp.ID],
				MaxPriorScore:  maxScores[tp.ID],
				Thresholds:     e.cfg.Thresholds,
			}
			if st, ok := cohortIdx.Lookup(tp); ok {
				in.Cohort = &st
			}

			var signals []domain.FraudSignal
			for _, d := range e.detectors {
				if sig := d.Detect(in); sig != nil {
					signals = append(signals, *sig)
				}
			}
			if e.rules != nil && e.rules.RulesCount() > 0 {
				row := rules.BuildFeatureRow(tp, snap, in.Payments, in.OpenAlertCount)
				signals = append(signals, e.rules.EvaluateAll(ctx, row)...)
			}
			perTaxpayer[idx] = signals
		}(i)
	}

	wg.Wait()

	var allSignals []domain.FraudSignal
	for _, sigs := range perTaxpayer {
		allSignals = append(allSignals, sigs...)
	}

	result := &domain.RunResult{
		RunID:     run.ID,
		AsOf:      ds.AsOf,
		Snapshots: snapshots,
		Cohorts:   cohortIdx.Stats(),
		Alerts:    e.scorer.Score(run.ID, run.StartedAt, allSignals),
	}
	return result, len(allSignals)
}

// priorAlertStats derives, per taxpayer, the count of unresolved alerts
// and the highest score among them. Closed and stale alerts no longer
// bear on new detection.
func priorAlertStats(alerts []domain.RiskAlert) (open map[string]int, maxScore map[string]float64) {
	open = make(map[string]int)
	maxScore = make(map[string]float64)
	for i := range alerts {
		a := &alerts[i]
		if a.Stale || a.Status == domain.AlertClosed {
			continue
		}
		if a.Status == domain.AlertOpen {
			open[a.TaxpayerID]++
		}
		if a.Score > maxScore[a.TaxpayerID] {
			maxScore[a.TaxpayerID] = a.Score
		}
	}
	return open, maxScore
}

func (e *Engine) loadScreeningRules(ctx context.Context) {
	stored, err := e.repo.ListScreeningRules(ctx)
	if err != nil {
		e.logger.Warn("failed to load screening rules, run proceeds without them", "error", err)
		return
	}
	if err := e.rules.ReloadRules(stored); err != nil {
		e.logger.Warn("screening rule failed to compile, set partially loaded", "error", err)
	}
}

func (e *Engine) publish(ctx context.Context, topic string, run *domain.EngineRun) {
	if e.bus == nil {
		return
	}
	payload, err := json.Marshal(map[string]string{
		"run_id": run.ID,
		"status": string(run.Status),
		"as_of":  run.AsOf.Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	if err := e.bus.Publish(ctx, topic, payload); err != nil {
		e.logger.Warn("failed to publish run event", "topic", topic, "error", err)
	}
}

// publishCriticalAlerts notifies downstream consumers of alerts that
// warrant immediate attention. Lower priorities are only surfaced via
// the query API.
func (e *Engine) publishCriticalAlerts(ctx context.Context, run *domain.EngineRun, alerts []domain.RiskAlert) {
	if e.bus == nil {
		return
	}
	for i := range alerts {
		a := &alerts[i]
		if a.Priority != domain.PriorityCritical {
			continue
		}
		payload, err := json.Marshal(map[string]any{
			"run_id":      run.ID,
			"alert_key":   a.Key,
			"taxpayer_id": a.TaxpayerID,
			"type":        a.Type,
			"score":       a.Score,
			"priority":    a.Priority,
		})
		if err != nil {
			continue
		}
		if err := e.bus.Publish(ctx, domain.TopicAlertRaised, payload); err != nil {
			e.logger.Warn("failed to publish alert event", "alert_key", a.Key, "error", err)
		}
	}
}
