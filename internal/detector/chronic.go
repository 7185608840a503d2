package detector

import (
	"fmt"

	"github.com/openrevenue/harrier/internal/domain"
)

// ChronicNonCompliance flags taxpayers with a persistently low filing
// compliance rate or an accumulation of unresolved open alerts.
type ChronicNonCompliance struct{}

func (d *ChronicNonCompliance) Type() domain.SignalType { return domain.SignalChronicNonCompliance }

// Detect fires when the filing compliance rate is strictly below the
// configured floor, or when more than the allowed number of alerts are
// still open. The score never decreases across runs while alerts stay
// open: it takes the maximum of the rate-derived score and the highest
// prior alert score.
func (d *ChronicNonCompliance) Detect(in *Input) *domain.FraudSignal {
	th := in.Thresholds

	rate := in.Snapshot.FilingComplianceRate
	lowRate := rate < th.LowComplianceRate
	tooManyOpen := in.OpenAlertCount > th.OpenAlertLimit
	if !lowRate && !tooManyOpen {
		return nil
	}

	score := 1 - rate
	if in.MaxPriorScore > score {
		score = in.MaxPriorScore
	}

	return &domain.FraudSignal{
		TaxpayerID: in.Taxpayer.ID,
		Type:       domain.SignalChronicNonCompliance,
		Description: fmt.Sprintf("Filing compliance rate %.2f with %d open alerts",
			rate, in.OpenAlertCount),
		Score:             domain.ClampScore(score),
		RevenueImpact:     in.Snapshot.TotalTaxPaid * th.ChronicImpactRate,
		RecommendedAction: "Escalate to enforcement for compliance follow-up and arrears assessment",
	}
}
