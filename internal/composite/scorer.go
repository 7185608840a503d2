// Package composite turns raw fraud signals into ranked, persisted risk
// alerts. It is the decision barrier: every detector has finished before
// scoring starts, so the ranking is total and deterministic.
package composite

import (
	"sort"
	"time"

	"github.com/openrevenue/harrier/internal/domain"
)

// Scorer builds the final alert list for one engine run.
type Scorer struct {
	// ScoreFloor below which signals are discarded as noise.
	ScoreFloor float64
}

// NewScorer creates a scorer with the given minimum alert score.
func NewScorer(floor float64) *Scorer {
	return &Scorer{ScoreFloor: floor}
}

// Score filters, orders and numbers the run's signals into alerts.
// Ordering is total: score descending, then taxpayer id ascending, then
// alert type ascending, then rule id ascending, so equal inputs always
// produce the identical alert list regardless of detector or rule
// completion order. Sequences are
// assigned 1..n after sorting. Every alert is created Open; investigation
// state belongs to the upsert layer.
func (s *Scorer) Score(runID string, createdAt time.Time, signals []domain.FraudSignal) []domain.RiskAlert {
	kept := make([]domain.FraudSignal, 0, len(signals))
	for _, sig := range signals {
		if sig.Score >= s.ScoreFloor {
			kept = append(kept, sig)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		if kept[i].TaxpayerID != kept[j].TaxpayerID {
			return kept[i].TaxpayerID < kept[j].TaxpayerID
		}
		if kept[i].Type != kept[j].Type {
			return kept[i].Type < kept[j].Type
		}
		return kept[i].RuleID < kept[j].RuleID
	})

	alerts := make([]domain.RiskAlert, 0, len(kept))
	for i, sig := range kept {
		alerts = append(alerts, domain.RiskAlert{
			Key:               AlertKey(sig.TaxpayerID, sig.Type, sig.Period, sig.RuleID),
			Sequence:          i + 1,
			RunID:             runID,
			TaxpayerID:        sig.TaxpayerID,
			Type:              sig.Type,
			Period:            sig.Period,
			Description:       sig.Description,
			Score:             sig.Score,
			Priority:          domain.PriorityForScore(sig.Score),
			RevenueImpact:     sig.RevenueImpact,
			RecommendedAction: sig.RecommendedAction,
			CreatedAt:         createdAt,
			Status:            domain.AlertOpen,
		})
	}
	return alerts
}
