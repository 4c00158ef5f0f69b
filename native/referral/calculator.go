package referral

import (
	"fmt"
	"math"
	"strings"
)

// CalculateReward computes the final point amounts for a single referral
// event against the effective configuration and the campaign selected by
// MatchCampaign (nil when none matched).
//
// Disabled reward types and unknown or disabled milestones produce a zero
// base reward rather than an error. The campaign multiplier applies only
// when the event satisfies the campaign's minPurchase condition; otherwise
// the campaign is treated as not applying to this event and its multiplier
// is forced to 1.0. Multipliers stack multiplicatively and the products are
// rounded half-up to whole points.
//
// Errors are reserved for structurally invalid input: a negative purchase
// amount, an unrecognised event type, or a milestone event without a key.
func CalculateReward(evt Event, eff EffectiveConfig, campaign *Campaign, tiers map[string]float64) (*RewardResult, error) {
	if evt.PurchaseAmount < 0 {
		return nil, fmt.Errorf("%w: %f", ErrNegativePurchase, evt.PurchaseAmount)
	}

	var baseReferrer, baseReferred int
	switch evt.Type {
	case EventSignup:
		if eff.SignupReward.Enabled {
			baseReferrer = eff.SignupReward.ReferrerPoints
			baseReferred = eff.SignupReward.ReferredPoints
		}
	case EventFirstPurchase:
		if eff.FirstPurchaseReward.Enabled {
			baseReferrer = eff.FirstPurchaseReward.ReferrerPoints
			baseReferred = eff.FirstPurchaseReward.ReferredPoints
		}
	case EventMilestone:
		key := strings.TrimSpace(evt.Milestone)
		if key == "" {
			return nil, ErrMissingMilestoneKey
		}
		for i := range eff.MilestoneRewards {
			m := &eff.MilestoneRewards[i]
			if m.Milestone == key && m.Enabled {
				baseReferrer = m.ReferrerPoints
				baseReferred = m.ReferredPoints
				break
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, evt.Type)
	}

	tierMultiplier := DefaultTierMultiplier
	if mult, ok := tiers[evt.UserTier]; ok && mult > 0 {
		tierMultiplier = mult
	}

	campaignMultiplier := 1.0
	var applied *Campaign
	if campaign != nil && evt.PurchaseAmount >= campaign.Conditions.MinPurchase {
		campaignMultiplier = campaign.Multiplier
		selected := campaign.Clone()
		applied = &selected
	}

	finalMultiplier := tierMultiplier * campaignMultiplier

	return &RewardResult{
		ReferrerPoints: roundHalfUp(float64(baseReferrer) * finalMultiplier),
		ReferredPoints: roundHalfUp(float64(baseReferred) * finalMultiplier),
		Multipliers: AppliedMultipliers{
			Tier:     tierMultiplier,
			Campaign: campaignMultiplier,
			Final:    finalMultiplier,
		},
		ActiveCampaign: applied,
		Tenant: ResolvedTenant{
			TenantID:   eff.TenantID,
			TenantName: eff.TenantName,
		},
	}, nil
}

// roundHalfUp rounds to the nearest integer with .5 rounding away from zero
// toward positive infinity. Point products are never negative, so the
// positive-domain formula suffices.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
