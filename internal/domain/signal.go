package domain

// SignalType identifies the detector (or screening rule) that produced a
// fraud signal. The values double as investigator-facing alert types.
type SignalType string

const (
	SignalSalesDrop            SignalType = "Sudden Sales Drop"
	SignalExpenseMismatch      SignalType = "Inconsistent Payroll vs Revenue"
	SignalPaymentAnomaly       SignalType = "Payment Pattern Anomaly"
	SignalPeerDeviation        SignalType = "Below Peer Average"
	SignalChronicNonCompliance SignalType = "Chronic Non-Compliance"

	// SignalScreeningRule marks signals produced by administrator-defined
	// CEL screening rules rather than a built-in detector.
	SignalScreeningRule SignalType = "Screening Rule Match"
)

// FraudSignal is a detector's scored, explainable indication of anomalous
// behavior. Signals are transient: they exist only between detection and
// composite scoring. The description embeds the literal computed figures
// that triggered the signal; downstream review depends on them.
type FraudSignal struct {
	TaxpayerID  string     `json:"taxpayerId"`
	Type        SignalType `json:"type"`
	Period      string     `json:"period,omitempty"` // triggering period label, when periodic
	RuleID      string     `json:"ruleId,omitempty"` // screening-rule signals only
	Description string     `json:"description"`

	// Score is clamped to [0,1] by the emitting detector.
	Score float64 `json:"score"`

	// RevenueImpact is the estimated recoverable revenue.
	RevenueImpact float64 `json:"revenueImpact"`

	RecommendedAction string `json:"recommendedAction"`
}

// ClampScore bounds a raw detector score to [0,1].
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
