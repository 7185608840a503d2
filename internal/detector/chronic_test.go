package detector

import (
	"math"
	"testing"

	"github.com/openrevenue/harrier/internal/domain"
)

func chronicInput(rate float64, openAlerts int, maxPrior float64) *Input {
	return &Input{
		AsOf:     asOf(),
		Taxpayer: &domain.TaxpayerProfile{ID: "tp-1"},
		Snapshot: &domain.ComplianceSnapshot{
			TaxpayerID:           "tp-1",
			FilingComplianceRate: rate,
			TotalTaxPaid:         50_000,
		},
		OpenAlertCount: openAlerts,
		MaxPriorScore:  maxPrior,
		Thresholds:     domain.DefaultThresholds(),
	}
}

func TestChronicLowComplianceRate(t *testing.T) {
	d := &ChronicNonCompliance{}

	sig := d.Detect(chronicInput(0.3, 0, 0))
	if sig == nil {
		t.Fatal("expected signal at 0.3 compliance rate")
	}
	if math.Abs(sig.Score-0.7) > 1e-9 {
		t.Errorf("score = %v, want 0.7", sig.Score)
	}
	wantImpact := 50_000 * 0.2
	if math.Abs(sig.RevenueImpact-wantImpact) > 1e-9 {
		t.Errorf("impact = %v, want %v", sig.RevenueImpact, wantImpact)
	}
}

func TestChronicRateBoundaryIsStrict(t *testing.T) {
	d := &ChronicNonCompliance{}

	// Exactly 0.5 is compliant enough; strictly below fires.
	if sig := d.Detect(chronicInput(0.5, 0, 0)); sig != nil {
		t.Errorf("rate 0.5 fired: %+v", sig)
	}
	if sig := d.Detect(chronicInput(0.4999, 0, 0)); sig == nil {
		t.Error("rate just below 0.5 did not fire")
	}
}

func TestChronicOpenAlertTrigger(t *testing.T) {
	d := &ChronicNonCompliance{}

	// A compliant filer still fires once too many alerts stay open.
	if sig := d.Detect(chronicInput(0.9, 2, 0)); sig != nil {
		t.Errorf("two open alerts fired: %+v", sig)
	}
	sig := d.Detect(chronicInput(0.9, 3, 0))
	if sig == nil {
		t.Fatal("three open alerts should fire")
	}
	if math.Abs(sig.Score-0.1) > 1e-9 {
		t.Errorf("score = %v, want 1 - rate = 0.1", sig.Score)
	}
}

func TestChronicScoreMonotonicAcrossRuns(t *testing.T) {
	d := &ChronicNonCompliance{}

	// While alerts stay open the score never decreases: the prior
	// maximum wins over a rate-derived score that has improved.
	sig := d.Detect(chronicInput(0.4, 3, 0.85))
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.Score != 0.85 {
		t.Errorf("score = %v, want prior maximum 0.85", sig.Score)
	}

	// When the rate-derived score exceeds the prior maximum it leads.
	sig = d.Detect(chronicInput(0.1, 3, 0.6))
	if sig == nil {
		t.Fatal("expected signal")
	}
	if math.Abs(sig.Score-0.9) > 1e-9 {
		t.Errorf("score = %v, want 0.9", sig.Score)
	}
}
