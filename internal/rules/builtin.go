package rules

import "github.com/openrevenue/harrier/internal/domain"

// DefaultScreeningRules returns the screening rules seeded on first start.
// Audit teams edit or replace these through the API; the engine treats
// them like any stored rule.
func DefaultScreeningRules() []*domain.ScreeningRule {
	return []*domain.ScreeningRule{
		{
			ID:                "silent-large-turnover",
			Name:              "Registered but silent",
			Description:       "Declared turnover above the small-business ceiling with no completed tax payments",
			Expression:        `annual_turnover > 1000000.0 && payment_count == 0`,
			Score:             0.7,
			ImpactRate:        0.15,
			RecommendedAction: "Confirm the taxpayer is trading and issue a payment demand",
			Enabled:           true,
		},
		{
			ID:                "ghost-employer",
			Name:              "Payroll without remittance",
			Description:       "Declares a workforce but has remitted no tax at all",
			Expression:        `employee_count > 10 && total_tax_paid == 0.0`,
			Score:             0.75,
			ImpactRate:        0.2,
			RecommendedAction: "Verify employee registrations and demand outstanding payroll tax",
			Enabled:           true,
		},
		{
			ID:                "persistent-lateness",
			Name:              "Persistently late filer",
			Description:       "Mean filing delay beyond sixty days on either cadence",
			Expression:        `paye_mean_late > 60.0 || vat_mean_late > 60.0`,
			Score:             0.5,
			ImpactRate:        0.05,
			RecommendedAction: "Issue a filing compliance notice",
			Enabled:           true,
		},
	}
}
