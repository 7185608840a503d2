package rules

import (
	"github.com/openrevenue/harrier/internal/domain"
)

// FeatureRow is the flat per-taxpayer view screening rules evaluate over.
// It is derived from the compliance snapshot and payment history once per
// taxpayer per run.
type FeatureRow struct {
	TaxpayerID     string
	ComplianceRate float64
	PAYEMeanLate   float64
	VATMeanLate    float64
	TotalTaxPaid   float64
	AnnualTurnover float64
	PaymentCount   int
	ChannelCount   int
	OpenAlerts     int
	EmployeeCount  int
	Sector         string
	TaxpayerType   string
	SizeBucket     string
	ChronicLate    bool
	LowFilingRate  bool
}

// BuildFeatureRow assembles the feature row for one taxpayer.
func BuildFeatureRow(tp *domain.TaxpayerProfile, snap *domain.ComplianceSnapshot, payments []domain.PaymentRecord, openAlerts int) *FeatureRow {
	channels := make(map[domain.PaymentChannel]bool)
	for i := range payments {
		if payments[i].Completed() {
			channels[payments[i].Channel] = true
		}
	}

	return &FeatureRow{
		TaxpayerID:     tp.ID,
		ComplianceRate: snap.FilingComplianceRate,
		PAYEMeanLate:   snap.PAYEMeanLate,
		VATMeanLate:    snap.VATMeanLate,
		TotalTaxPaid:   snap.TotalTaxPaid,
		AnnualTurnover: tp.AnnualTurnover,
		PaymentCount:   snap.PaymentCount,
		ChannelCount:   len(channels),
		OpenAlerts:     openAlerts,
		EmployeeCount:  tp.EmployeeCount,
		Sector:         tp.Sector,
		TaxpayerType:   string(tp.Type),
		SizeBucket:     string(tp.SizeBucket()),
		ChronicLate:    snap.ChronicLateFiler,
		LowFilingRate:  snap.LowFilingRate,
	}
}

// activation maps the row to CEL variables.
func (f *FeatureRow) activation() map[string]any {
	return map[string]any{
		"taxpayer": map[string]any{
			"id":     f.TaxpayerID,
			"sector": f.Sector,
			"type":   f.TaxpayerType,
		},
		"compliance_rate":    f.ComplianceRate,
		"paye_mean_late":     f.PAYEMeanLate,
		"vat_mean_late":      f.VATMeanLate,
		"total_tax_paid":     f.TotalTaxPaid,
		"annual_turnover":    f.AnnualTurnover,
		"payment_count":      int64(f.PaymentCount),
		"channel_count":      int64(f.ChannelCount),
		"open_alerts":        int64(f.OpenAlerts),
		"employee_count":     int64(f.EmployeeCount),
		"sector":             f.Sector,
		"taxpayer_type":      f.TaxpayerType,
		"size_bucket":        f.SizeBucket,
		"chronic_late_filer": f.ChronicLate,
		"low_filing_rate":    f.LowFilingRate,
	}
}
