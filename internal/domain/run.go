package domain

import (
	"time"
)

// Dataset is the point-in-time input snapshot for one engine run, as
// supplied by the normalizer. The engine treats it as immutable.
type Dataset struct {
	AsOf      time.Time
	Taxpayers []TaxpayerProfile
	Filings   []FilingRecord
	Payments  []PaymentRecord

	// PriorAlerts are the persisted alerts from earlier runs, used by the
	// chronic non-compliance detector (open alert count and max score).
	PriorAlerts []RiskAlert
}

// RunStatus is the lifecycle state of an engine run.
type RunStatus string

const (
	RunRunning   RunStatus = "Running"
	RunCompleted RunStatus = "Completed"
	RunFailed    RunStatus = "Failed"
)

// EngineRun records the outcome of one batch run.
type EngineRun struct {
	ID         string    `json:"id"`
	AsOf       time.Time `json:"asOf"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`

	TaxpayerCount int   `json:"taxpayerCount"`
	SignalCount   int   `json:"signalCount"`
	AlertCount    int   `json:"alertCount"`
	SnapshotCount int   `json:"snapshotCount"`
	DurationMs    int64 `json:"durationMs"`
}

// RunResult is what one engine run produces before persistence.
type RunResult struct {
	RunID     string
	AsOf      time.Time
	Snapshots []ComplianceSnapshot
	Cohorts   []CohortStat
	Alerts    []RiskAlert
}
