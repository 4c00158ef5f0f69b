package referral

import "time"

// MatchCampaign selects at most one campaign applicable to the tenant at the
// given instant. A campaign is eligible when it is enabled, its window covers
// now (startDate <= now <= endDate), and it either targets all tenants
// (empty TargetTenants) or lists tenantID.
//
// Overlapping eligible campaigns are resolved deterministically: a
// tenant-targeted campaign wins over a global one, a higher multiplier wins
// among equally targeted campaigns, and the earlier start date wins among
// remaining ties. Event-level conditions (minPurchase, userTypes) are not
// evaluated here; they are deferred to CalculateReward.
//
// Returns nil when no campaign matches.
func MatchCampaign(campaigns []Campaign, tenantID string, now time.Time) *Campaign {
	var best *Campaign
	bestTargeted := false
	for i := range campaigns {
		candidate := &campaigns[i]
		if !campaignActiveAt(candidate, now) {
			continue
		}
		targeted, ok := campaignTargets(candidate, tenantID)
		if !ok {
			continue
		}
		if best == nil || campaignPreferred(candidate, targeted, best, bestTargeted) {
			best = candidate
			bestTargeted = targeted
		}
	}
	if best == nil {
		return nil
	}
	selected := best.Clone()
	return &selected
}

func campaignActiveAt(c *Campaign, now time.Time) bool {
	if c == nil || !c.Enabled {
		return false
	}
	if now.Before(c.StartDate) {
		return false
	}
	if !c.EndDate.IsZero() && now.After(c.EndDate) {
		return false
	}
	return true
}

// campaignTargets reports whether the campaign covers the tenant and whether
// the coverage is tenant-specific rather than global.
func campaignTargets(c *Campaign, tenantID string) (targeted, ok bool) {
	if len(c.TargetTenants) == 0 {
		return false, true
	}
	if tenantID == "" {
		return false, false
	}
	for _, target := range c.TargetTenants {
		if target == tenantID {
			return true, true
		}
	}
	return false, false
}

// campaignPreferred implements the tie-break ordering: tenant-targeted over
// global, then highest multiplier, then earliest start date.
func campaignPreferred(candidate *Campaign, candidateTargeted bool, best *Campaign, bestTargeted bool) bool {
	if candidateTargeted != bestTargeted {
		return candidateTargeted
	}
	if candidate.Multiplier != best.Multiplier {
		return candidate.Multiplier > best.Multiplier
	}
	return candidate.StartDate.Before(best.StartDate)
}
