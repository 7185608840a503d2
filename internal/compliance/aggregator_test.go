package compliance

import (
	"math"
	"testing"
	"time"

	"github.com/openrevenue/harrier/internal/domain"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y, m, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func monthlyFiling(taxpayerID string, year, month int, filed *time.Time, status domain.FilingStatus) domain.FilingRecord {
	return domain.FilingRecord{
		ReturnID:    taxpayerID + "-paye",
		TaxpayerID:  taxpayerID,
		Cadence:     domain.CadenceMonthly,
		PeriodYear:  year,
		PeriodMonth: month,
		DueDate:     date(year, month, 15).AddDate(0, 1, 0),
		FilingDate:  filed,
		Status:      status,
	}
}

func quarterlyFiling(taxpayerID string, year, quarter int, filed *time.Time, status domain.FilingStatus) domain.FilingRecord {
	return domain.FilingRecord{
		ReturnID:      taxpayerID + "-vat",
		TaxpayerID:    taxpayerID,
		Cadence:       domain.CadenceQuarterly,
		PeriodYear:    year,
		PeriodQuarter: quarter,
		DueDate:       date(year, quarter*3, 28).AddDate(0, 1, 0),
		FilingDate:    filed,
		Status:        status,
	}
}

func TestSnapshotCounts(t *testing.T) {
	agg := NewAggregator(domain.DefaultThresholds())
	ds := &domain.Dataset{AsOf: date(2024, 1, 1)}

	filings := []domain.FilingRecord{
		// on time
		monthlyFiling("tp-1", 2023, 10, datePtr(2023, 11, 10), domain.FilingFiled),
		// 5 days late
		monthlyFiling("tp-1", 2023, 11, datePtr(2023, 12, 20), domain.FilingFiled),
		// never filed
		monthlyFiling("tp-1", 2023, 12, nil, domain.FilingOverdue),
		// quarterly, 15 days late
		quarterlyFiling("tp-1", 2023, 3, datePtr(2023, 11, 12), domain.FilingFiled),
	}

	snap := agg.Snapshot("tp-1", ds, filings, nil)

	if snap.PAYEExpected != 3 || snap.PAYEFiled != 2 || snap.PAYEOnTime != 1 {
		t.Errorf("paye counts = %d/%d/%d, want 3/2/1",
			snap.PAYEExpected, snap.PAYEFiled, snap.PAYEOnTime)
	}
	if snap.VATExpected != 1 || snap.VATFiled != 1 || snap.VATOnTime != 0 {
		t.Errorf("vat counts = %d/%d/%d, want 1/1/0",
			snap.VATExpected, snap.VATFiled, snap.VATOnTime)
	}
	// Mean lateness covers late filings only, so the on-time return does
	// not dilute it.
	if snap.PAYEMeanLate != 5 {
		t.Errorf("paye mean lateness = %v, want 5", snap.PAYEMeanLate)
	}
	if snap.VATMeanLate != 15 {
		t.Errorf("vat mean lateness = %v, want 15", snap.VATMeanLate)
	}
	want := 3.0 / 4.0
	if math.Abs(snap.FilingComplianceRate-want) > 1e-9 {
		t.Errorf("compliance rate = %v, want %v", snap.FilingComplianceRate, want)
	}
}

func TestSnapshotEmptyHistory(t *testing.T) {
	agg := NewAggregator(domain.DefaultThresholds())
	ds := &domain.Dataset{AsOf: date(2024, 1, 1)}

	snap := agg.Snapshot("tp-empty", ds, nil, nil)

	if snap.FilingComplianceRate != 0 {
		t.Errorf("compliance rate = %v, want 0 for empty history", snap.FilingComplianceRate)
	}
	if snap.ChronicLateFiler {
		t.Error("empty history should not flag chronic late filer")
	}
	if !snap.LowFilingRate {
		t.Error("zero compliance rate should flag low filing rate")
	}
}

func TestSnapshotChronicLateFiler(t *testing.T) {
	agg := NewAggregator(domain.DefaultThresholds())
	ds := &domain.Dataset{AsOf: date(2024, 1, 1)}

	tests := []struct {
		name     string
		lateDays int
		want     bool
	}{
		{"exactly thirty days is not chronic", 30, false},
		{"thirty one days is chronic", 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := monthlyFiling("tp-1", 2023, 11, nil, domain.FilingFiled)
			filedAt := f.DueDate.AddDate(0, 0, tt.lateDays)
			f.FilingDate = &filedAt

			snap := agg.Snapshot("tp-1", ds, []domain.FilingRecord{f}, nil)
			if snap.ChronicLateFiler != tt.want {
				t.Errorf("chronic = %v, want %v at %d days", snap.ChronicLateFiler, tt.want, tt.lateDays)
			}
		})
	}
}

func TestSnapshotPaymentsCompletedOnly(t *testing.T) {
	agg := NewAggregator(domain.DefaultThresholds())
	ds := &domain.Dataset{AsOf: date(2024, 1, 1)}

	payments := []domain.PaymentRecord{
		{PaymentID: "p1", TaxpayerID: "tp-1", Amount: 1000, Status: domain.PaymentCompleted},
		{PaymentID: "p2", TaxpayerID: "tp-1", Amount: 500, Status: domain.PaymentFailed},
		{PaymentID: "p3", TaxpayerID: "tp-1", Amount: 250, Status: domain.PaymentCompleted},
	}

	snap := agg.Snapshot("tp-1", ds, nil, payments)
	if snap.PaymentCount != 2 {
		t.Errorf("payment count = %d, want 2", snap.PaymentCount)
	}
	if snap.TotalTaxPaid != 1250 {
		t.Errorf("total tax paid = %v, want 1250", snap.TotalTaxPaid)
	}
}

func TestBuildAllSkipsUnknownTaxpayers(t *testing.T) {
	agg := NewAggregator(domain.DefaultThresholds())
	ds := &domain.Dataset{
		AsOf: date(2024, 1, 1),
		Taxpayers: []domain.TaxpayerProfile{
			{ID: "tp-b"},
			{ID: "tp-a"},
		},
		Filings: []domain.FilingRecord{
			monthlyFiling("tp-a", 2023, 11, datePtr(2023, 12, 10), domain.FilingFiled),
			monthlyFiling("tp-ghost", 2023, 11, datePtr(2023, 12, 10), domain.FilingFiled),
		},
		Payments: []domain.PaymentRecord{
			{PaymentID: "p1", TaxpayerID: "tp-ghost", Amount: 99, Status: domain.PaymentCompleted},
		},
	}

	snaps := agg.BuildAll(ds)

	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	// Sorted by taxpayer id.
	if snaps[0].TaxpayerID != "tp-a" || snaps[1].TaxpayerID != "tp-b" {
		t.Errorf("order = %s, %s; want tp-a, tp-b", snaps[0].TaxpayerID, snaps[1].TaxpayerID)
	}
	if snaps[0].PAYEExpected != 1 {
		t.Errorf("tp-a paye expected = %d, want 1", snaps[0].PAYEExpected)
	}
	if snaps[1].TotalTaxPaid != 0 {
		t.Errorf("orphan payment leaked into tp-b: %v", snaps[1].TotalTaxPaid)
	}
}
