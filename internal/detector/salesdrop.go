package detector

import (
	"fmt"
	"math"
	"sort"

	"github.com/openrevenue/harrier/internal/domain"
)

// SalesDrop flags a sudden collapse in declared quarterly sales against
// the taxpayer's own trailing average.
type SalesDrop struct{}

func (d *SalesDrop) Type() domain.SignalType { return domain.SignalSalesDrop }

// Detect compares the latest filed quarter's total sales with the mean of
// the prior quarters inside the trailing lookback window. It needs at
// least SalesDropMinPeriods prior quarters and a non-zero trailing
// average; otherwise there is no baseline and no signal.
func (d *SalesDrop) Detect(in *Input) *domain.FraudSignal {
	th := in.Thresholds

	var quarters []domain.FilingRecord
	for i := range in.Filings {
		f := &in.Filings[i]
		if f.Cadence == domain.CadenceQuarterly && f.Filed() {
			quarters = append(quarters, *f)
		}
	}
	if len(quarters) < th.SalesDropMinPeriods+1 {
		return nil
	}

	sort.Slice(quarters, func(i, j int) bool {
		return quarters[i].PeriodIndex() < quarters[j].PeriodIndex()
	})
	if len(quarters) > th.SalesDropLookback {
		quarters = quarters[len(quarters)-th.SalesDropLookback:]
	}

	current := quarters[len(quarters)-1]
	prior := quarters[:len(quarters)-1]
	if len(prior) < th.SalesDropMinPeriods {
		return nil
	}

	var priorSales []float64
	for i := range prior {
		priorSales = append(priorSales, prior[i].TotalSales)
	}
	avgPrior := mean(priorSales)
	if avgPrior == 0 {
		return nil
	}

	pctChange := (current.TotalSales - avgPrior) / avgPrior * 100
	if pctChange >= th.SalesDropPct {
		return nil
	}

	drop := math.Abs(pctChange)
	return &domain.FraudSignal{
		TaxpayerID: in.Taxpayer.ID,
		Type:       domain.SignalSalesDrop,
		Period:     current.PeriodLabel(),
		Description: fmt.Sprintf("Declared sales dropped by %.1f%% in %s compared to the trailing quarterly average",
			drop, current.PeriodLabel()),
		Score:             domain.ClampScore(drop / 100),
		RevenueImpact:     (avgPrior - current.TotalSales) * th.EstimatedTaxRate,
		RecommendedAction: "Request sales records and verify declared turnover for the flagged quarter",
	}
}
