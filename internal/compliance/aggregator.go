// Package compliance computes per-taxpayer filing and payment aggregates.
package compliance

import (
	"sort"

	"github.com/openrevenue/harrier/internal/domain"
)

// Aggregator builds compliance snapshots from raw filing and payment
// history. It is pure: the same input always yields the same snapshots.
type Aggregator struct {
	thresholds domain.Thresholds
}

// NewAggregator creates a compliance aggregator with the given policy.
func NewAggregator(th domain.Thresholds) *Aggregator {
	return &Aggregator{thresholds: th}
}

// BuildAll computes one snapshot per taxpayer in the dataset, sorted by
// taxpayer id. Filings and payments referencing a taxpayer absent from
// the profile set are skipped; they are a normalizer-side gap, not an
// engine error.
func (a *Aggregator) BuildAll(ds *domain.Dataset) []domain.ComplianceSnapshot {
	known := make(map[string]bool, len(ds.Taxpayers))
	for i := range ds.Taxpayers {
		known[ds.Taxpayers[i].ID] = true
	}

	filingsByTaxpayer := make(map[string][]domain.FilingRecord)
	for _, f := range ds.Filings {
		if known[f.TaxpayerID] {
			filingsByTaxpayer[f.TaxpayerID] = append(filingsByTaxpayer[f.TaxpayerID], f)
		}
	}
	paymentsByTaxpayer := make(map[string][]domain.PaymentRecord)
	for _, p := range ds.Payments {
		if known[p.TaxpayerID] {
			paymentsByTaxpayer[p.TaxpayerID] = append(paymentsByTaxpayer[p.TaxpayerID], p)
		}
	}

	snapshots := make([]domain.ComplianceSnapshot, 0, len(ds.Taxpayers))
	for i := range ds.Taxpayers {
		id := ds.Taxpayers[i].ID
		snapshots = append(snapshots, a.Snapshot(id, ds, filingsByTaxpayer[id], paymentsByTaxpayer[id]))
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].TaxpayerID < snapshots[j].TaxpayerID
	})
	return snapshots
}

// Snapshot computes the compliance snapshot for one taxpayer. A taxpayer
// with no history gets zero-valued fields, never an error.
func (a *Aggregator) Snapshot(taxpayerID string, ds *domain.Dataset, filings []domain.FilingRecord, payments []domain.PaymentRecord) domain.ComplianceSnapshot {
	snap := domain.ComplianceSnapshot{
		TaxpayerID: taxpayerID,
		AsOf:       ds.AsOf,
	}

	var payeLateSum, vatLateSum float64
	var payeLateN, vatLateN int

	for i := range filings {
		f := &filings[i]
		late, filed := f.Lateness()

		switch f.Cadence {
		case domain.CadenceMonthly:
			snap.PAYEExpected++
			if f.Status == domain.FilingFiled {
				snap.PAYEFiled++
			}
			if f.OnTime() {
				snap.PAYEOnTime++
			}
			if filed && late > 0 {
				payeLateSum += float64(late)
				payeLateN++
			}
		case domain.CadenceQuarterly:
			snap.VATExpected++
			if f.Status == domain.FilingFiled {
				snap.VATFiled++
			}
			if f.OnTime() {
				snap.VATOnTime++
			}
			if filed && late > 0 {
				vatLateSum += float64(late)
				vatLateN++
			}
		}
	}

	if payeLateN > 0 {
		snap.PAYEMeanLate = payeLateSum / float64(payeLateN)
	}
	if vatLateN > 0 {
		snap.VATMeanLate = vatLateSum / float64(vatLateN)
	}

	for i := range payments {
		if payments[i].Completed() {
			snap.PaymentCount++
			snap.TotalTaxPaid += payments[i].Amount
		}
	}

	expected := snap.PAYEExpected + snap.VATExpected
	if expected > 0 {
		snap.FilingComplianceRate = float64(snap.PAYEFiled+snap.VATFiled) / float64(expected)
	}

	snap.ChronicLateFiler = snap.PAYEMeanLate > a.thresholds.ChronicLateDays ||
		snap.VATMeanLate > a.thresholds.ChronicLateDays
	snap.LowFilingRate = snap.FilingComplianceRate < a.thresholds.LowComplianceRate

	return snap
}
