package detector

import (
	"fmt"
	"math"

	"github.com/openrevenue/harrier/internal/domain"
)

// PeerDeviation flags taxpayers paying far less tax than the mean of
// their (sector, size bucket) cohort.
type PeerDeviation struct{}

func (d *PeerDeviation) Type() domain.SignalType { return domain.SignalPeerDeviation }

// Detect compares the taxpayer's total tax paid with the cohort mean. No
// cohort stat, or a zero cohort mean, means no reliable baseline and no
// signal.
func (d *PeerDeviation) Detect(in *Input) *domain.FraudSignal {
	th := in.Thresholds

	if in.Cohort == nil || in.Cohort.MeanTaxPaid == 0 {
		return nil
	}

	paid := in.Snapshot.TotalTaxPaid
	deviation := (paid - in.Cohort.MeanTaxPaid) / in.Cohort.MeanTaxPaid * 100
	if deviation >= th.PeerDeviationPct {
		return nil
	}

	below := math.Abs(deviation)
	return &domain.FraudSignal{
		TaxpayerID: in.Taxpayer.ID,
		Type:       domain.SignalPeerDeviation,
		Description: fmt.Sprintf("Tax paid is %.1f%% below the %s / %s peer average",
			below, in.Cohort.Key.Sector, in.Cohort.Key.SizeBucket),
		Score:             domain.ClampScore(below / 100),
		RevenueImpact:     in.Cohort.MeanTaxPaid - paid,
		RecommendedAction: "Benchmark declared activity against sector peers and schedule a desk review",
	}
}
