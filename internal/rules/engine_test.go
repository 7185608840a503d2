package rules

import (
	"context"
	"testing"

	"github.com/openrevenue/harrier/internal/domain"
)

func testRow() *FeatureRow {
	return &FeatureRow{
		TaxpayerID:     "tp-1",
		ComplianceRate: 0.9,
		TotalTaxPaid:   100_000,
		AnnualTurnover: 5_000_000,
		PaymentCount:   12,
		ChannelCount:   2,
		Sector:         "Retail",
		TaxpayerType:   "Corporate",
		SizeBucket:     "Medium",
	}
}

func TestEngineBoolRule(t *testing.T) {
	e, err := NewEngine(4)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	rule := &domain.ScreeningRule{
		ID:         "turnover-check",
		Name:       "High turnover",
		Expression: `annual_turnover > 1000000.0`,
		Score:      0.6,
		ImpactRate: 0.1,
		Enabled:    true,
	}
	if err := e.LoadRule(rule); err != nil {
		t.Fatalf("LoadRule: %v", err)
	}

	signals := e.EvaluateAll(context.Background(), testRow())
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	sig := signals[0]
	if sig.Type != domain.SignalScreeningRule {
		t.Errorf("type = %s", sig.Type)
	}
	if sig.RuleID != "turnover-check" {
		t.Errorf("ruleId = %q, want turnover-check", sig.RuleID)
	}
	if sig.Score != 0.6 {
		t.Errorf("score = %v, want 0.6", sig.Score)
	}
	if sig.RevenueImpact != 10_000 {
		t.Errorf("impact = %v, want 10000", sig.RevenueImpact)
	}
}

func TestEngineNonMatchingRule(t *testing.T) {
	e, _ := NewEngine(4)
	rule := &domain.ScreeningRule{
		ID:         "no-payments",
		Name:       "No payments",
		Expression: `payment_count == 0`,
		Score:      0.7,
		Enabled:    true,
	}
	if err := e.LoadRule(rule); err != nil {
		t.Fatalf("LoadRule: %v", err)
	}

	if signals := e.EvaluateAll(context.Background(), testRow()); len(signals) != 0 {
		t.Errorf("got %d signals, want 0", len(signals))
	}
}

func TestEngineNumericRuleScales(t *testing.T) {
	e, _ := NewEngine(4)
	rule := &domain.ScreeningRule{
		ID:         "scaled",
		Name:       "Scaled score",
		Expression: `1.0 - compliance_rate`,
		Score:      1.0,
		Enabled:    true,
	}
	if err := e.LoadRule(rule); err != nil {
		t.Fatalf("LoadRule: %v", err)
	}

	row := testRow()
	row.ComplianceRate = 0.25
	signals := e.EvaluateAll(context.Background(), row)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].Score != 0.75 {
		t.Errorf("score = %v, want 0.75", signals[0].Score)
	}
}

func TestEngineRejectsInvalidExpression(t *testing.T) {
	e, _ := NewEngine(4)
	rule := &domain.ScreeningRule{
		ID:         "broken",
		Name:       "Broken",
		Expression: `nonexistent_variable > 5`,
		Score:      0.5,
		Enabled:    true,
	}
	if err := e.ValidateRule(rule); err == nil {
		t.Error("expected compile error for unknown variable")
	}
	if err := e.LoadRule(rule); err == nil {
		t.Error("expected load to fail")
	}
	if e.RulesCount() != 0 {
		t.Errorf("rules count = %d, want 0", e.RulesCount())
	}
}

func TestEngineLoadsOnlyEnabledRules(t *testing.T) {
	e, _ := NewEngine(4)
	rules := []*domain.ScreeningRule{
		{ID: "a", Name: "A", Expression: `true`, Score: 0.5, Enabled: true},
		{ID: "b", Name: "B", Expression: `true`, Score: 0.5, Enabled: false},
	}
	if err := e.LoadRules(rules); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if e.RulesCount() != 1 {
		t.Errorf("rules count = %d, want 1", e.RulesCount())
	}
}

func TestEngineReload(t *testing.T) {
	e, _ := NewEngine(4)
	if err := e.LoadRules(DefaultScreeningRules()); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if e.RulesCount() != 3 {
		t.Fatalf("rules count = %d, want 3", e.RulesCount())
	}

	if err := e.ReloadRules([]*domain.ScreeningRule{
		{ID: "only", Name: "Only", Expression: `low_filing_rate`, Score: 0.5, Enabled: true},
	}); err != nil {
		t.Fatalf("ReloadRules: %v", err)
	}
	if e.RulesCount() != 1 {
		t.Errorf("rules count = %d after reload, want 1", e.RulesCount())
	}
}

func TestDefaultScreeningRulesCompile(t *testing.T) {
	e, _ := NewEngine(4)
	for _, rule := range DefaultScreeningRules() {
		if err := e.ValidateRule(rule); err != nil {
			t.Errorf("rule %s does not compile: %v", rule.ID, err)
		}
	}
}

func TestBuildFeatureRowChannelCount(t *testing.T) {
	tp := &domain.TaxpayerProfile{ID: "tp-1", Sector: "Retail", Type: domain.TaxpayerCorporate, AnnualTurnover: 5_000_000}
	snap := &domain.ComplianceSnapshot{TaxpayerID: "tp-1", PaymentCount: 3, TotalTaxPaid: 300}
	payments := []domain.PaymentRecord{
		{Channel: domain.ChannelBankTransfer, Status: domain.PaymentCompleted},
		{Channel: domain.ChannelBankTransfer, Status: domain.PaymentCompleted},
		{Channel: domain.ChannelMobileMoney, Status: domain.PaymentCompleted},
		{Channel: domain.ChannelCash, Status: domain.PaymentFailed},
	}

	row := BuildFeatureRow(tp, snap, payments, 1)
	if row.ChannelCount != 2 {
		t.Errorf("channel count = %d, want 2 (failed payment excluded)", row.ChannelCount)
	}
	if row.OpenAlerts != 1 {
		t.Errorf("open alerts = %d, want 1", row.OpenAlerts)
	}
}
