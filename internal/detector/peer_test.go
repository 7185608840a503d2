package detector

import (
	"math"
	"strings"
	"testing"

	"github.com/openrevenue/harrier/internal/domain"
)

func peerInput(paid, cohortMean float64) *Input {
	return &Input{
		AsOf: asOf(),
		Taxpayer: &domain.TaxpayerProfile{
			ID:             "tp-1",
			Sector:         "Retail",
			AnnualTurnover: 5_000_000,
		},
		Snapshot: &domain.ComplianceSnapshot{TaxpayerID: "tp-1", TotalTaxPaid: paid},
		Cohort: &domain.CohortStat{
			Key:         domain.CohortKey{Sector: "Retail", SizeBucket: domain.SizeMedium},
			MemberCount: 5,
			MeanTaxPaid: cohortMean,
		},
		Thresholds: domain.DefaultThresholds(),
	}
}

func TestPeerDeviationFires(t *testing.T) {
	d := &PeerDeviation{}

	// Cohort pays [100,100,100,100,40]: mean 88, taxpayer at 40 sits
	// about 54.5% below it.
	sig := d.Detect(peerInput(40, 88))
	if sig == nil {
		t.Fatal("expected signal at -54.5% deviation")
	}
	if math.Abs(sig.Score-0.5454545454) > 1e-6 {
		t.Errorf("score = %v, want ~0.5455", sig.Score)
	}
	if math.Abs(sig.RevenueImpact-48) > 1e-9 {
		t.Errorf("impact = %v, want 48", sig.RevenueImpact)
	}
	if !strings.Contains(sig.Description, "54.5%") {
		t.Errorf("description missing rounded deviation: %q", sig.Description)
	}
}

func TestPeerDeviationThresholdBoundary(t *testing.T) {
	d := &PeerDeviation{}

	// Exactly -50% does not fire.
	if sig := d.Detect(peerInput(50, 100)); sig != nil {
		t.Errorf("exact -50%% deviation fired: %+v", sig)
	}
	if sig := d.Detect(peerInput(49, 100)); sig == nil {
		t.Error("-51% deviation did not fire")
	}
}

func TestPeerDeviationNoBaseline(t *testing.T) {
	d := &PeerDeviation{}

	t.Run("no cohort stat", func(t *testing.T) {
		in := peerInput(10, 100)
		in.Cohort = nil
		if sig := d.Detect(in); sig != nil {
			t.Errorf("fired without a cohort: %+v", sig)
		}
	})

	t.Run("zero cohort mean", func(t *testing.T) {
		if sig := d.Detect(peerInput(0, 0)); sig != nil {
			t.Errorf("fired on zero cohort mean: %+v", sig)
		}
	})
}
