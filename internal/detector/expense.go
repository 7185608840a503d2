package detector

import (
	"fmt"

	"github.com/openrevenue/harrier/internal/domain"
)

// ExpenseMismatch flags corporate taxpayers whose declared annual payroll
// is implausibly small or large relative to declared turnover. A normal
// business sits inside the configured salary-to-turnover band.
type ExpenseMismatch struct{}

func (d *ExpenseMismatch) Type() domain.SignalType { return domain.SignalExpenseMismatch }

// Detect sums gross salaries over the trailing twelve months of filed
// payroll returns and compares them to declared annual turnover. Only
// corporate forms are checked; individuals keep no payroll. Zero declared
// turnover yields no signal rather than a division error.
func (d *ExpenseMismatch) Detect(in *Input) *domain.FraudSignal {
	th := in.Thresholds

	if !in.Taxpayer.Type.IsCorporate() {
		return nil
	}
	turnover := in.Taxpayer.AnnualTurnover
	if turnover <= 0 {
		return nil
	}

	windowStart := in.AsOf.AddDate(-1, 0, 0)
	var salaries float64
	var months int
	for i := range in.Filings {
		f := &in.Filings[i]
		if f.Cadence != domain.CadenceMonthly || !f.Filed() {
			continue
		}
		periodStart := monthStart(f.PeriodYear, f.PeriodMonth)
		if periodStart.Before(windowStart) || !periodStart.Before(in.AsOf) {
			continue
		}
		salaries += f.GrossSalaries
		months++
	}
	if months == 0 {
		return nil
	}

	ratio := salaries / turnover * 100
	if ratio >= th.SalaryRatioLow && ratio <= th.SalaryRatioHigh {
		return nil
	}

	var score float64
	switch {
	case ratio < th.SalaryRatioSevere:
		score = 0.8
	case ratio < th.SalaryRatioModerate:
		score = 0.6
	default:
		score = 0.4
	}

	return &domain.FraudSignal{
		TaxpayerID: in.Taxpayer.ID,
		Type:       domain.SignalExpenseMismatch,
		Description: fmt.Sprintf("Declared payroll is %.1f%% of annual turnover, outside the normal %.0f-%.0f%% band",
			ratio, th.SalaryRatioLow, th.SalaryRatioHigh),
		Score:             score,
		RevenueImpact:     salaries * th.SalaryImpactRate,
		RecommendedAction: "Cross-check payroll declarations against employee registrations and bank records",
	}
}
