package domain

import (
	"time"
)

// AlertPriority buckets an alert by its risk score.
type AlertPriority string

const (
	PriorityCritical AlertPriority = "Critical" // score >= 0.8
	PriorityHigh     AlertPriority = "High"     // score >= 0.6
	PriorityMedium   AlertPriority = "Medium"   // score >= 0.4
	// PriorityLow is unreachable under the current 0.4 alert floor but
	// retained for forward compatibility.
	PriorityLow AlertPriority = "Low"
)

// PriorityForScore maps a risk score to its priority bucket.
func PriorityForScore(score float64) AlertPriority {
	switch {
	case score >= 0.8:
		return PriorityCritical
	case score >= 0.6:
		return PriorityHigh
	case score >= 0.4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// AlertStatus is the investigation lifecycle state of an alert.
// The engine only ever creates alerts as Open; all later transitions
// belong to the investigation workflow.
type AlertStatus string

const (
	AlertOpen               AlertStatus = "Open"
	AlertUnderInvestigation AlertStatus = "Under Investigation"
	AlertClosed             AlertStatus = "Closed"
)

// CanTransition reports whether an investigation-side status change is
// legal: Open -> Under Investigation -> Closed, with Closed terminal.
func (s AlertStatus) CanTransition(to AlertStatus) bool {
	switch s {
	case AlertOpen:
		return to == AlertUnderInvestigation || to == AlertClosed
	case AlertUnderInvestigation:
		return to == AlertClosed
	default:
		return false
	}
}

// RiskAlert is a persisted, investigator-facing alert built from a fraud
// signal. Alerts are keyed by a stable natural key (taxpayer + type +
// period) so that investigation state survives re-runs; the sequence and
// run ID record where the alert ranked in the run that produced it.
type RiskAlert struct {
	// Key is the stable natural key, a hash of taxpayer id, alert type
	// and triggering period.
	Key string `json:"key"`

	// Sequence is the 1-based rank assigned by the composite scorer,
	// ordered by score descending (ties broken by taxpayer id).
	Sequence int `json:"sequence"`

	RunID      string     `json:"runId"`
	TaxpayerID string     `json:"taxpayerId"`
	Type       SignalType `json:"type"`
	Period     string     `json:"period,omitempty"`

	Description       string        `json:"description"`
	Score             float64       `json:"score"`
	Priority          AlertPriority `json:"priority"`
	RevenueImpact     float64       `json:"revenueImpact"`
	RecommendedAction string        `json:"recommendedAction"`

	CreatedAt time.Time   `json:"createdAt"`
	Status    AlertStatus `json:"status"`

	// Stale marks alerts whose key was not reproduced by the latest run.
	// Stale alerts are retained for history rather than deleted.
	Stale bool `json:"stale"`

	// Investigation fields, owned by the external workflow.
	InvestigatedBy     string `json:"investigatedBy,omitempty"`
	InvestigationNotes string `json:"investigationNotes,omitempty"`
}
