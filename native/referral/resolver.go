package referral

import "strings"

// ResolveConfig produces the effective per-tenant configuration view. When a
// tenant override exists for tenantID the override's reward and settings
// blocks replace the global ones entirely; otherwise the global blocks apply.
// An empty tenantID represents an un-tenanted event and always resolves to
// the global blocks. Absence of an override is an expected path, not an
// error.
func ResolveConfig(cfg *Configuration, tenantID string) EffectiveConfig {
	eff := EffectiveConfig{TenantID: strings.TrimSpace(tenantID)}
	if cfg == nil {
		return eff
	}
	if eff.TenantID != "" {
		for i := range cfg.TenantOverrides {
			ov := &cfg.TenantOverrides[i]
			if ov.TenantID != eff.TenantID {
				continue
			}
			eff.TenantName = ov.TenantName
			eff.OverrideApplied = true
			eff.SignupReward = ov.SignupReward
			eff.FirstPurchaseReward = ov.FirstPurchaseReward
			eff.MilestoneRewards = append([]MilestoneReward(nil), ov.MilestoneRewards...)
			eff.Settings = ov.Settings
			return eff
		}
	}
	eff.SignupReward = cfg.SignupReward
	eff.FirstPurchaseReward = cfg.FirstPurchaseReward
	eff.MilestoneRewards = append([]MilestoneReward(nil), cfg.MilestoneRewards...)
	eff.Settings = cfg.Settings
	return eff
}
