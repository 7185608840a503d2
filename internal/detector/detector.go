// Package detector contains the built-in fraud signal detectors. Each
// detector is a pure function over one taxpayer's evaluation input; the
// engine runs them concurrently across taxpayers and collects signals
// behind a barrier before composite scoring.
package detector

import (
	"time"

	"github.com/openrevenue/harrier/internal/domain"
)

// Input is everything a detector may inspect for one taxpayer. It is
// assembled once per taxpayer by the engine and shared read-only across
// detectors.
type Input struct {
	AsOf     time.Time
	Taxpayer *domain.TaxpayerProfile
	Snapshot *domain.ComplianceSnapshot

	// Filings and Payments are this taxpayer's records only, in
	// dataset order.
	Filings  []domain.FilingRecord
	Payments []domain.PaymentRecord

	// Cohort is nil when the taxpayer's (sector, size bucket) cohort was
	// too small to materialize.
	Cohort *domain.CohortStat

	// Prior alert state for the chronic non-compliance detector.
	OpenAlertCount int
	MaxPriorScore  float64

	Thresholds domain.Thresholds
}

// Detector is one fraud detection strategy. Detect returns nil when the
// taxpayer shows no anomaly or the detector lacks the history it needs;
// an absent signal is never an error.
type Detector interface {
	Type() domain.SignalType
	Detect(in *Input) *domain.FraudSignal
}

func monthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// BuiltIn returns the standard detector set in evaluation order.
func BuiltIn() []Detector {
	return []Detector{
		&SalesDrop{},
		&ExpenseMismatch{},
		&PaymentPattern{},
		&PeerDeviation{},
		&ChronicNonCompliance{},
	}
}
