// Package cohort builds peer comparison statistics over (sector, size
// bucket) groups of taxpayers.
package cohort

import (
	"sort"

	"github.com/openrevenue/harrier/internal/domain"
)

// Index holds the cohort statistics for one engine run, keyed by
// (sector, size bucket). Cohorts below domain.MinCohortSize are never
// materialized, so a lookup miss means "no reliable peer group".
type Index struct {
	stats map[domain.CohortKey]domain.CohortStat
}

// Build groups taxpayers by sector and turnover size bucket and computes
// the mean total tax paid per cohort. Every applicable taxpayer counts as
// a member, including those who paid nothing; suppressing zero payers
// would inflate the mean the peer deviation detector compares against.
func Build(taxpayers []domain.TaxpayerProfile, snapshots []domain.ComplianceSnapshot) *Index {
	paidByTaxpayer := make(map[string]float64, len(snapshots))
	for i := range snapshots {
		paidByTaxpayer[snapshots[i].TaxpayerID] = snapshots[i].TotalTaxPaid
	}

	acc := make(map[domain.CohortKey]*domain.CohortStat)
	for i := range taxpayers {
		tp := &taxpayers[i]
		if tp.Sector == "" {
			continue
		}
		key := domain.CohortKey{Sector: tp.Sector, SizeBucket: tp.SizeBucket()}
		st, ok := acc[key]
		if !ok {
			st = &domain.CohortStat{Key: key}
			acc[key] = st
		}
		st.MemberCount++
		st.TotalTaxPaid += paidByTaxpayer[tp.ID]
	}

	idx := &Index{stats: make(map[domain.CohortKey]domain.CohortStat)}
	for key, st := range acc {
		if st.MemberCount < domain.MinCohortSize {
			continue
		}
		st.MeanTaxPaid = st.TotalTaxPaid / float64(st.MemberCount)
		idx.stats[key] = *st
	}
	return idx
}

// Lookup returns the cohort stat for a taxpayer's sector and size bucket.
// The second return is false when the cohort was too small to emit.
func (idx *Index) Lookup(tp *domain.TaxpayerProfile) (domain.CohortStat, bool) {
	st, ok := idx.stats[domain.CohortKey{Sector: tp.Sector, SizeBucket: tp.SizeBucket()}]
	return st, ok
}

// Stats returns all materialized cohort statistics, sorted by sector then
// size bucket for deterministic persistence.
func (idx *Index) Stats() []domain.CohortStat {
	out := make([]domain.CohortStat, 0, len(idx.stats))
	for _, st := range idx.stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Sector != out[j].Key.Sector {
			return out[i].Key.Sector < out[j].Key.Sector
		}
		return out[i].Key.SizeBucket < out[j].Key.SizeBucket
	})
	return out
}
