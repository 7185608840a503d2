package detector

import (
	"math"
	"testing"

	"github.com/openrevenue/harrier/internal/domain"
)

func paymentInput(amounts []float64, channels []domain.PaymentChannel) *Input {
	var payments []domain.PaymentRecord
	for i, a := range amounts {
		ch := channels[i%len(channels)]
		payments = append(payments, domain.PaymentRecord{
			TaxpayerID: "tp-1",
			Date:       asOf().AddDate(0, 0, -(i + 1)),
			Channel:    ch,
			Amount:     a,
			Status:     domain.PaymentCompleted,
		})
	}
	return &Input{
		AsOf:       asOf(),
		Taxpayer:   &domain.TaxpayerProfile{ID: "tp-1"},
		Snapshot:   &domain.ComplianceSnapshot{TaxpayerID: "tp-1", TotalTaxPaid: 10_000},
		Payments:   payments,
		Thresholds: domain.DefaultThresholds(),
	}
}

func TestPaymentPatternHighVariability(t *testing.T) {
	d := &PaymentPattern{}

	// Mean 2020, sample stddev far above twice the mean.
	in := paymentInput([]float64{10, 10, 10, 10, 10_050}, []domain.PaymentChannel{domain.ChannelBankTransfer})
	sig := d.Detect(in)
	if sig == nil {
		t.Fatal("expected signal for erratic amounts")
	}
	if sig.Score != 1 {
		t.Errorf("score = %v, want clamped to 1", sig.Score)
	}
	wantImpact := 10_000 * 0.05
	if math.Abs(sig.RevenueImpact-wantImpact) > 1e-9 {
		t.Errorf("impact = %v, want %v", sig.RevenueImpact, wantImpact)
	}
}

func TestPaymentPatternChannelSpread(t *testing.T) {
	d := &PaymentPattern{}

	channels := []domain.PaymentChannel{
		domain.ChannelBankTransfer,
		domain.ChannelMobileMoney,
		domain.ChannelCash,
		domain.ChannelOnline,
	}
	// Steady amounts, four channels: fires on channel count alone.
	in := paymentInput([]float64{100, 100, 100, 100}, channels)
	sig := d.Detect(in)
	if sig == nil {
		t.Fatal("expected signal for four channels")
	}
	// Zero variability plus 4 * 0.1 channel weight.
	if math.Abs(sig.Score-0.4) > 1e-9 {
		t.Errorf("score = %v, want 0.4", sig.Score)
	}
}

func TestPaymentPatternSteadyBehavior(t *testing.T) {
	d := &PaymentPattern{}
	in := paymentInput(
		[]float64{100, 102, 98, 101, 99, 100},
		[]domain.PaymentChannel{domain.ChannelBankTransfer, domain.ChannelMobileMoney},
	)
	if sig := d.Detect(in); sig != nil {
		t.Errorf("steady payer fired: %+v", sig)
	}
}

func TestPaymentPatternWindowAndStatus(t *testing.T) {
	d := &PaymentPattern{}

	t.Run("old payments excluded", func(t *testing.T) {
		in := paymentInput([]float64{100, 100}, []domain.PaymentChannel{domain.ChannelBankTransfer})
		// An erratic payment outside the trailing window must not count.
		in.Payments = append(in.Payments, domain.PaymentRecord{
			TaxpayerID: "tp-1",
			Date:       asOf().AddDate(0, -8, 0),
			Channel:    domain.ChannelCash,
			Amount:     1_000_000,
			Status:     domain.PaymentCompleted,
		})
		if sig := d.Detect(in); sig != nil {
			t.Errorf("out-of-window payment fired: %+v", sig)
		}
	})

	t.Run("failed payments excluded", func(t *testing.T) {
		in := paymentInput([]float64{100, 100}, []domain.PaymentChannel{domain.ChannelBankTransfer})
		in.Payments = append(in.Payments, domain.PaymentRecord{
			TaxpayerID: "tp-1",
			Date:       asOf().AddDate(0, 0, -3),
			Channel:    domain.ChannelCash,
			Amount:     500_000,
			Status:     domain.PaymentFailed,
		})
		if sig := d.Detect(in); sig != nil {
			t.Errorf("failed payment fired: %+v", sig)
		}
	})

	t.Run("single payment is not enough", func(t *testing.T) {
		in := paymentInput([]float64{100}, []domain.PaymentChannel{domain.ChannelBankTransfer})
		if sig := d.Detect(in); sig != nil {
			t.Errorf("single payment fired: %+v", sig)
		}
	})
}
