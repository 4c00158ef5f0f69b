package referral

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Engine represents the referral reward computation module. The behaviour of
// the engine is fully driven by the configuration snapshot supplied to each
// call; it holds no state of its own and is safe for concurrent use.
type Engine struct{}

// NewEngine creates a new referral reward engine.
func NewEngine() *Engine {
	return &Engine{}
}

// ComputeReferralReward resolves the tenant configuration, selects the
// applicable campaign for the supplied instant and computes the final reward
// for the event. The configuration must be the single active document; a nil
// or inactive configuration fails closed with ErrNoActiveConfig.
//
// The computation is pure: the clock is a parameter and the result carries
// the full multiplier breakdown so callers can explain the awarded amount
// without re-deriving it.
func (e *Engine) ComputeReferralReward(cfg *Configuration, evt Event, now time.Time) (*RewardResult, error) {
	if cfg == nil || !cfg.IsActive {
		return nil, ErrNoActiveConfig
	}
	eff := ResolveConfig(cfg, evt.TenantID)
	campaign := MatchCampaign(cfg.Campaigns, eff.TenantID, now)
	return CalculateReward(evt, eff, campaign, cfg.TierMultipliers)
}

// DeriveEventID produces the deterministic idempotency key for a referral
// event from its natural key. Retried deliveries of the same real-world
// event map to the same identifier so the accrual ledger rejects the
// duplicate instead of double-counting.
func DeriveEventID(tenantID string, eventType EventType, referredUserID, milestoneKey string) string {
	h := sha256.New()
	for _, part := range []string{
		strings.TrimSpace(tenantID),
		string(eventType),
		strings.TrimSpace(referredUserID),
		strings.TrimSpace(milestoneKey),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
