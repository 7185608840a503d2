package detector

import (
	"fmt"

	"github.com/openrevenue/harrier/internal/domain"
)

// PaymentPattern flags erratic payment behavior over the trailing months:
// amounts swinging far more than the taxpayer's own mean, or payments
// spread across an unusual number of channels. Both are classic
// structuring tells.
type PaymentPattern struct{}

func (d *PaymentPattern) Type() domain.SignalType { return domain.SignalPaymentAnomaly }

// Detect inspects completed payments inside the trailing window. The
// variability measure is the coefficient of variation (stddev over mean),
// which needs at least two payments and a non-zero mean; with less
// history there is no signal.
func (d *PaymentPattern) Detect(in *Input) *domain.FraudSignal {
	th := in.Thresholds

	windowStart := in.AsOf.AddDate(0, -th.PaymentWindowMonths, 0)
	var amounts []float64
	channels := make(map[domain.PaymentChannel]bool)
	for i := range in.Payments {
		p := &in.Payments[i]
		if !p.Completed() {
			continue
		}
		if p.Date.Before(windowStart) || p.Date.After(in.AsOf) {
			continue
		}
		amounts = append(amounts, p.Amount)
		channels[p.Channel] = true
	}
	if len(amounts) < 2 {
		return nil
	}

	m := mean(amounts)
	if m == 0 {
		return nil
	}
	variability := stddev(amounts) / m
	channelCount := len(channels)

	if variability <= th.PaymentVarianceLimit && channelCount <= th.PaymentChannelLimit {
		return nil
	}

	return &domain.FraudSignal{
		TaxpayerID: in.Taxpayer.ID,
		Type:       domain.SignalPaymentAnomaly,
		Description: fmt.Sprintf("Payment variability %.2f across %d channels in the last %d months - possible structuring",
			variability, channelCount, th.PaymentWindowMonths),
		Score:             domain.ClampScore(variability + float64(channelCount)*0.1),
		RevenueImpact:     in.Snapshot.TotalTaxPaid * th.PaymentImpactRate,
		RecommendedAction: "Review payment history for split transactions and reconcile against filed liabilities",
	}
}
