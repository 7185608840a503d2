package detector

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/openrevenue/harrier/internal/domain"
)

func asOf() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func quarterlySales(taxpayerID string, startYear, startQuarter int, sales []float64) []domain.FilingRecord {
	var out []domain.FilingRecord
	year, quarter := startYear, startQuarter
	for _, s := range sales {
		filed := time.Date(year, time.Month(quarter*3+1), 20, 0, 0, 0, 0, time.UTC)
		out = append(out, domain.FilingRecord{
			TaxpayerID:    taxpayerID,
			Cadence:       domain.CadenceQuarterly,
			PeriodYear:    year,
			PeriodQuarter: quarter,
			DueDate:       filed.AddDate(0, 0, 8),
			FilingDate:    &filed,
			Status:        domain.FilingFiled,
			TotalSales:    s,
		})
		quarter++
		if quarter > 4 {
			quarter = 1
			year++
		}
	}
	return out
}

func salesInput(sales []float64) *Input {
	return &Input{
		AsOf:       asOf(),
		Taxpayer:   &domain.TaxpayerProfile{ID: "tp-1"},
		Snapshot:   &domain.ComplianceSnapshot{TaxpayerID: "tp-1"},
		Filings:    quarterlySales("tp-1", 2023, 1, sales),
		Thresholds: domain.DefaultThresholds(),
	}
}

func TestSalesDropFires(t *testing.T) {
	d := &SalesDrop{}
	sig := d.Detect(salesInput([]float64{100, 105, 110, 45}))
	if sig == nil {
		t.Fatal("expected signal for 57% drop")
	}

	// avg of prior three quarters is 105; (45-105)/105 = -57.1%.
	if math.Abs(sig.Score-0.5714285714) > 1e-6 {
		t.Errorf("score = %v, want ~0.5714", sig.Score)
	}
	if !strings.Contains(sig.Description, "57.1%") {
		t.Errorf("description missing rounded drop: %q", sig.Description)
	}
	if !strings.Contains(sig.Description, "2023-Q4") {
		t.Errorf("description missing period: %q", sig.Description)
	}
	if sig.Period != "2023-Q4" {
		t.Errorf("period = %q, want 2023-Q4", sig.Period)
	}
	wantImpact := (105.0 - 45.0) * 0.15
	if math.Abs(sig.RevenueImpact-wantImpact) > 1e-9 {
		t.Errorf("impact = %v, want %v", sig.RevenueImpact, wantImpact)
	}
}

func TestSalesDropThresholdBoundary(t *testing.T) {
	d := &SalesDrop{}

	// Exactly -30% does not fire; the threshold is strict.
	if sig := d.Detect(salesInput([]float64{100, 100, 100, 70})); sig != nil {
		t.Errorf("exact -30%% change fired: %+v", sig)
	}
	if sig := d.Detect(salesInput([]float64{100, 100, 100, 69})); sig == nil {
		t.Error("-31% change did not fire")
	}
}

func TestSalesDropInsufficientHistory(t *testing.T) {
	d := &SalesDrop{}

	// One prior quarter is below the two-period minimum.
	if sig := d.Detect(salesInput([]float64{100, 40})); sig != nil {
		t.Errorf("fired with a single prior quarter: %+v", sig)
	}
	if sig := d.Detect(salesInput([]float64{100, 100, 40})); sig == nil {
		t.Error("two prior quarters should be enough")
	}
}

func TestSalesDropZeroBaseline(t *testing.T) {
	d := &SalesDrop{}
	if sig := d.Detect(salesInput([]float64{0, 0, 0, 0})); sig != nil {
		t.Errorf("zero trailing average produced a signal: %+v", sig)
	}
}

func TestSalesDropLookbackWindow(t *testing.T) {
	d := &SalesDrop{}

	// Old high quarters outside the trailing window must not skew the
	// baseline: only the three quarters before the latest count.
	sig := d.Detect(salesInput([]float64{1000, 1000, 100, 105, 110, 45}))
	if sig == nil {
		t.Fatal("expected signal")
	}
	if math.Abs(sig.Score-0.5714285714) > 1e-6 {
		t.Errorf("score = %v, want ~0.5714 from trailing window only", sig.Score)
	}
}

func TestSalesDropIgnoresUnfiledQuarters(t *testing.T) {
	d := &SalesDrop{}
	in := salesInput([]float64{100, 105, 110, 45})
	// An unfiled quarter carries zero sales and must not enter the
	// baseline or pose as the current quarter.
	in.Filings = append(in.Filings, domain.FilingRecord{
		TaxpayerID:    "tp-1",
		Cadence:       domain.CadenceQuarterly,
		PeriodYear:    2024,
		PeriodQuarter: 1,
		Status:        domain.FilingOverdue,
	})

	sig := d.Detect(in)
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.Period != "2023-Q4" {
		t.Errorf("period = %q, want 2023-Q4", sig.Period)
	}
}
