package composite

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/openrevenue/harrier/internal/domain"
)

// AlertKey derives the stable natural key for an alert from its taxpayer,
// type, triggering period and, for screening-rule signals, the rule id.
// Re-running the engine over the same data reproduces the same key, which
// is what lets upserts preserve investigation state instead of spawning
// duplicate alerts. The rule id segment keeps two rules matching the same
// taxpayer from colliding on one key (all screening signals share a type
// and carry no period).
func AlertKey(taxpayerID string, sigType domain.SignalType, period, ruleID string) string {
	h := sha256.New()
	h.Write([]byte(taxpayerID))
	h.Write([]byte{0})
	h.Write([]byte(sigType))
	h.Write([]byte{0})
	h.Write([]byte(period))
	h.Write([]byte{0})
	h.Write([]byte(ruleID))
	return hex.EncodeToString(h.Sum(nil))[:32]
}
