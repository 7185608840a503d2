// Package rules provides the CEL-Go based screening rule engine.
// Screening rules are administrator-defined expressions over per-taxpayer
// feature rows; they complement the built-in detectors without requiring a
// code change.
package rules

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/openrevenue/harrier/internal/domain"
)

// Engine compiles and evaluates screening rules.
type Engine struct {
	mu            sync.RWMutex
	env           *cel.Env
	compiledRules map[string]*CompiledRule
	maxWorkers    int
}

// CompiledRule holds a pre-compiled CEL program.
type CompiledRule struct {
	Rule    *domain.ScreeningRule
	Program cel.Program
}

// NewEngine creates a screening rule engine.
func NewEngine(maxWorkers int) (*Engine, error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	// CEL environment exposing the taxpayer feature row
	env, err := cel.NewEnv(
		cel.Variable("taxpayer", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("compliance_rate", cel.DoubleType),
		cel.Variable("paye_mean_late", cel.DoubleType),
		cel.Variable("vat_mean_late", cel.DoubleType),
		cel.Variable("total_tax_paid", cel.DoubleType),
		cel.Variable("annual_turnover", cel.DoubleType),
		cel.Variable("payment_count", cel.IntType),
		cel.Variable("channel_count", cel.IntType),
		cel.Variable("open_alerts", cel.IntType),
		cel.Variable("employee_count", cel.IntType),
		cel.Variable("sector", cel.StringType),
		cel.Variable("taxpayer_type", cel.StringType),
		cel.Variable("size_bucket", cel.StringType),
		cel.Variable("chronic_late_filer", cel.BoolType),
		cel.Variable("low_filing_rate", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{
		env:           env,
		compiledRules: make(map[string]*CompiledRule),
		maxWorkers:    maxWorkers,
	}, nil
}

// ValidateRule compiles a rule without loading it.
func (e *Engine) ValidateRule(rule *domain.ScreeningRule) error {
	if rule == nil {
		return fmt.Errorf("screening rule is required")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, err := e.compileRule(rule)
	return err
}

// LoadRule compiles and loads a rule into the engine.
func (e *Engine) LoadRule(rule *domain.ScreeningRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	compiled, err := e.compileRule(rule)
	if err != nil {
		return err
	}

	e.compiledRules[rule.ID] = compiled
	return nil
}

// LoadRules compiles and loads all enabled rules.
func (e *Engine) LoadRules(rules []*domain.ScreeningRule) error {
	for _, rule := range rules {
		if rule.Enabled {
			if err := e.LoadRule(rule); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReloadRules clears the loaded set and loads a fresh one. Used when the
// stored rules change between runs.
func (e *Engine) ReloadRules(rules []*domain.ScreeningRule) error {
	e.mu.Lock()
	e.compiledRules = make(map[string]*CompiledRule)
	e.mu.Unlock()
	return e.LoadRules(rules)
}

// RulesCount returns the number of loaded rules.
func (e *Engine) RulesCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.compiledRules)
}

func (e *Engine) compileRule(rule *domain.ScreeningRule) (*CompiledRule, error) {
	if rule.Expression == "" {
		return nil, fmt.Errorf("rule %s: expression is required", rule.ID)
	}

	ast, issues := e.env.Compile(rule.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("rule %s: compile failed: %w", rule.ID, issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("rule %s: program creation failed: %w", rule.ID, err)
	}

	return &CompiledRule{Rule: rule, Program: program}, nil
}

// EvaluateAll runs every loaded rule against one taxpayer's feature row
// and returns a signal per matching rule. Rules run in parallel behind a
// semaphore; a rule that fails to evaluate is skipped, never fatal.
func (e *Engine) EvaluateAll(ctx context.Context, features *FeatureRow) []domain.FraudSignal {
	e.mu.RLock()
	rules := make([]*CompiledRule, 0, len(e.compiledRules))
	for _, rule := range e.compiledRules {
		rules = append(rules, rule)
	}
	e.mu.RUnlock()

	if len(rules) == 0 {
		return nil
	}

	activation := features.activation()

	signals := make([]*domain.FraudSignal, len(rules))
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.maxWorkers)

	for i, rule := range rules {
		wg.Add(1)
		go func(idx int, r *CompiledRule) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			signals[idx] = e.evaluateRule(r, features, activation)
		}(i, rule)
	}

	wg.Wait()

	var out []domain.FraudSignal
	for _, sig := range signals {
		if sig != nil {
			out = append(out, *sig)
		}
	}
	return out
}

func (e *Engine) evaluateRule(rule *CompiledRule, features *FeatureRow, activation map[string]any) *domain.FraudSignal {
	out, _, err := rule.Program.Eval(activation)
	if err != nil {
		return nil
	}

	score := toScore(out) * rule.Rule.Score
	if score <= 0 {
		return nil
	}

	return &domain.FraudSignal{
		TaxpayerID: features.TaxpayerID,
		Type:       domain.SignalScreeningRule,
		RuleID:     rule.Rule.ID,
		Description: fmt.Sprintf("Matched screening rule %q: %s",
			rule.Rule.Name, rule.Rule.Description),
		Score:             domain.ClampScore(score),
		RevenueImpact:     features.TotalTaxPaid * rule.Rule.ImpactRate,
		RecommendedAction: rule.Rule.RecommendedAction,
	}
}

// toScore converts a CEL result to a score multiplier. A bool is all or
// nothing; a numeric result scales the rule's configured score.
func toScore(val ref.Val) float64 {
	switch v := val.(type) {
	case types.Bool:
		if v {
			return 1.0
		}
		return 0.0
	case types.Double:
		return float64(v)
	case types.Int:
		return float64(v)
	default:
		return 0.0
	}
}
