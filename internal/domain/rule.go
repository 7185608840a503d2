package domain

// ScreeningRule is an administrator-defined CEL expression evaluated over
// each taxpayer's feature row during a run. A rule that returns true (or a
// positive numeric score) emits an extra FraudSignal alongside the built-in
// detectors. Rules let audit teams add screens without a code change.
type ScreeningRule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Expression is a CEL expression over the taxpayer feature variables
	// (compliance_rate, mean_late_days, total_tax_paid, annual_turnover,
	// payment_count, channel_count, ...). It must return bool or double.
	Expression string `json:"expression"`

	// Score assigned to the emitted signal when the expression returns
	// true; numeric results are multiplied by it and clamped to [0,1].
	Score float64 `json:"score"`

	// ImpactRate estimates recoverable revenue as a fraction of the
	// taxpayer's total tax paid.
	ImpactRate float64 `json:"impactRate"`

	RecommendedAction string `json:"recommendedAction,omitempty"`
	Enabled           bool   `json:"enabled"`
}
