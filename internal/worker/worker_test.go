package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openrevenue/harrier/internal/bus"
	"github.com/openrevenue/harrier/internal/domain"
)

type stubRunner struct {
	calls  atomic.Int64
	lastAs atomic.Value
	err    error
}

func (s *stubRunner) Run(ctx context.Context, asOf time.Time) (*domain.EngineRun, error) {
	s.calls.Add(1)
	s.lastAs.Store(asOf)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.EngineRun{
		ID:         "run-test",
		AsOf:       asOf,
		Status:     domain.RunCompleted,
		FinishedAt: time.Now().UTC(),
		AlertCount: 3,
	}, nil
}

func TestWorkerRunRequest(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	runner := &stubRunner{}
	w := NewWorker(eventBus, runner, domain.SchedulerConfig{}, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	payload, _ := json.Marshal(RunRequest{AsOf: asOf})
	if err := eventBus.Publish(context.Background(), domain.TopicRunRequested, payload); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	waitFor(t, func() bool { return runner.calls.Load() == 1 })

	got := runner.lastAs.Load().(time.Time)
	if !got.Equal(asOf) {
		t.Errorf("asOf = %v, want %v", got, asOf)
	}

	stats := w.GetStats()
	if stats.RunCount != 1 {
		t.Errorf("RunCount = %d, want 1", stats.RunCount)
	}
	if stats.SubscriptionCount != 1 {
		t.Errorf("SubscriptionCount = %d, want 1", stats.SubscriptionCount)
	}
}

func TestWorkerEmptyRequestDefaultsToNow(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	runner := &stubRunner{}
	w := NewWorker(eventBus, runner, domain.SchedulerConfig{}, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	before := time.Now().UTC()
	if err := eventBus.Publish(context.Background(), domain.TopicRunRequested, nil); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	waitFor(t, func() bool { return runner.calls.Load() == 1 })

	got := runner.lastAs.Load().(time.Time)
	if got.Before(before) || got.After(time.Now().UTC()) {
		t.Errorf("asOf = %v, expected current time", got)
	}
}

func TestWorkerRunFailure(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	runner := &stubRunner{err: errors.New("boom")}
	w := NewWorker(eventBus, runner, domain.SchedulerConfig{}, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := eventBus.Publish(context.Background(), domain.TopicRunRequested, nil); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	waitFor(t, func() bool { return runner.calls.Load() == 1 })

	if stats := w.GetStats(); stats.RunCount != 0 {
		t.Errorf("RunCount = %d, want 0 after failed run", stats.RunCount)
	}
}

func TestWorkerStopUnsubscribes(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	runner := &stubRunner{}
	w := NewWorker(eventBus, runner, domain.SchedulerConfig{}, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if err := eventBus.Publish(context.Background(), domain.TopicRunRequested, nil); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if runner.calls.Load() != 0 {
		t.Errorf("runner called after Stop")
	}
	if stats := w.GetStats(); stats.SubscriptionCount != 0 {
		t.Errorf("SubscriptionCount = %d after Stop, want 0", stats.SubscriptionCount)
	}
}

func TestWorkerWithoutBus(t *testing.T) {
	runner := &stubRunner{}
	w := NewWorker(nil, runner, domain.SchedulerConfig{Enabled: true, IntervalHours: 1}, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	stats := w.GetStats()
	if stats.SubscriptionCount != 0 {
		t.Errorf("SubscriptionCount = %d, want 0", stats.SubscriptionCount)
	}
	if !stats.SchedulerEnabled {
		t.Error("SchedulerEnabled = false, want true")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
