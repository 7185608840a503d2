package domain

import (
	"fmt"
	"time"
)

// Cadence is the periodicity of a filing type.
type Cadence string

const (
	// CadenceMonthly covers payroll-style (PAYE) returns, due monthly.
	CadenceMonthly Cadence = "monthly"

	// CadenceQuarterly covers sales-tax-style (VAT) returns, due quarterly.
	CadenceQuarterly Cadence = "quarterly"
)

// FilingStatus is the lifecycle state of a periodic return.
type FilingStatus string

const (
	FilingFiled   FilingStatus = "Filed"
	FilingPending FilingStatus = "Pending"
	FilingOverdue FilingStatus = "Overdue"
	FilingAmended FilingStatus = "Amended"
)

// FilingRecord is one periodic return for a taxpayer. Monthly records carry
// the payroll figures, quarterly records the sales breakdown; the unused
// side is zero. A nil FilingDate means the return was never filed, which is
// distinct from a late filing.
type FilingRecord struct {
	ReturnID   string  `json:"returnId"`
	TaxpayerID string  `json:"taxpayerId"`
	Cadence    Cadence `json:"cadence"`

	PeriodYear    int `json:"periodYear"`
	PeriodMonth   int `json:"periodMonth,omitempty"`   // monthly cadence
	PeriodQuarter int `json:"periodQuarter,omitempty"` // quarterly cadence

	DueDate    time.Time  `json:"dueDate"`
	FilingDate *time.Time `json:"filingDate,omitempty"`

	Status FilingStatus `json:"status"`

	// Monthly (payroll) figures
	GrossSalaries float64 `json:"grossSalaries,omitempty"`
	PAYETax       float64 `json:"payeTax,omitempty"`

	// Quarterly (sales) figures
	TotalSales    float64 `json:"totalSales,omitempty"`
	TaxableSales  float64 `json:"taxableSales,omitempty"`
	ExemptSales   float64 `json:"exemptSales,omitempty"`
	ExportSales   float64 `json:"exportSales,omitempty"`
	NetVATPayable float64 `json:"netVatPayable,omitempty"`
}

// Filed reports whether the return was actually filed.
func (f *FilingRecord) Filed() bool {
	return f.FilingDate != nil
}

// OnTime reports whether the return was filed by its due date.
// A never-filed return is not on time.
func (f *FilingRecord) OnTime() bool {
	return f.FilingDate != nil && !f.FilingDate.After(f.DueDate)
}

// Lateness returns the filing delay in whole days. Returns 0 for on-time
// filings and false when the return was never filed.
func (f *FilingRecord) Lateness() (days int, filed bool) {
	if f.FilingDate == nil {
		return 0, false
	}
	d := int(f.FilingDate.Sub(f.DueDate).Hours() / 24)
	if d < 0 {
		d = 0
	}
	return d, true
}

// PeriodLabel renders the filing period, e.g. "2023-11" or "2023-Q4".
func (f *FilingRecord) PeriodLabel() string {
	if f.Cadence == CadenceQuarterly {
		return fmt.Sprintf("%d-Q%d", f.PeriodYear, f.PeriodQuarter)
	}
	return fmt.Sprintf("%d-%02d", f.PeriodYear, f.PeriodMonth)
}

// PeriodIndex returns a sortable ordinal for the filing period within its
// cadence (months since year 0 for monthly, quarters for quarterly).
func (f *FilingRecord) PeriodIndex() int {
	if f.Cadence == CadenceQuarterly {
		return f.PeriodYear*4 + f.PeriodQuarter - 1
	}
	return f.PeriodYear*12 + f.PeriodMonth - 1
}
