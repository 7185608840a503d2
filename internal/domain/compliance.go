package domain

import (
	"time"
)

// ComplianceSnapshot holds per-taxpayer filing and payment behavior,
// recomputed wholesale on every engine run. A taxpayer with no history
// gets a zero-valued snapshot, never a missing one.
type ComplianceSnapshot struct {
	TaxpayerID string    `json:"taxpayerId"`
	AsOf       time.Time `json:"asOf"`

	// Monthly (PAYE) cadence
	PAYEExpected int     `json:"payeExpected"`
	PAYEFiled    int     `json:"payeFiled"`
	PAYEOnTime   int     `json:"payeOnTime"`
	PAYEMeanLate float64 `json:"payeMeanLateDays"` // mean over late filings only

	// Quarterly (VAT) cadence
	VATExpected int     `json:"vatExpected"`
	VATFiled    int     `json:"vatFiled"`
	VATOnTime   int     `json:"vatOnTime"`
	VATMeanLate float64 `json:"vatMeanLateDays"`

	// Payment behavior
	PaymentCount int     `json:"paymentCount"`
	TotalTaxPaid float64 `json:"totalTaxPaid"`

	// Combined filing compliance rate: (payeFiled + vatFiled) /
	// (payeExpected + vatExpected), 0 when nothing is expected.
	FilingComplianceRate float64 `json:"filingComplianceRate"`

	ChronicLateFiler bool `json:"chronicLateFiler"`
	LowFilingRate    bool `json:"lowFilingRate"`
}
