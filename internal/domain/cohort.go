package domain

// CohortKey identifies a peer comparison cohort: taxpayers sharing a
// business sector and turnover size bucket.
type CohortKey struct {
	Sector     string     `json:"sector"`
	SizeBucket SizeBucket `json:"sizeBucket"`
}

// CohortStat is the central tendency of total tax paid across a cohort.
// Stats are only materialized for cohorts with at least MinCohortSize
// distinct members; smaller cohorts are suppressed as too noisy to
// compare against.
type CohortStat struct {
	Key          CohortKey `json:"key"`
	MemberCount  int       `json:"memberCount"`
	MeanTaxPaid  float64   `json:"meanTaxPaid"`
	TotalTaxPaid float64   `json:"totalTaxPaid"`
}

// MinCohortSize is the smallest cohort for which a CohortStat is emitted.
const MinCohortSize = 5
