package referral

import (
	"errors"
	"testing"
	"time"
)

func TestComputeReferralRewardEndToEnd(t *testing.T) {
	cfg := testConfiguration()
	cfg.Campaigns = []Campaign{
		{
			Name:       "spring-boost",
			StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
			Multiplier: 1.5,
			Enabled:    true,
			Conditions: CampaignConditions{MinPurchase: 50},
		},
	}
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	engine := NewEngine()
	evt := Event{
		Type:           EventFirstPurchase,
		TenantID:       "spa-aurora",
		UserTier:       "platinum",
		PurchaseAmount: 100,
	}
	result, err := engine.ComputeReferralReward(cfg, evt, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Override first purchase 600/300, platinum 2.0, campaign 1.5.
	if result.ReferrerPoints != 1800 || result.ReferredPoints != 900 {
		t.Fatalf("expected 1800/900, got %d/%d", result.ReferrerPoints, result.ReferredPoints)
	}
	if result.Multipliers.Final != 3.0 {
		t.Fatalf("expected final multiplier 3.0, got %v", result.Multipliers.Final)
	}
	if result.ActiveCampaign == nil || result.ActiveCampaign.Name != "spring-boost" {
		t.Fatalf("expected campaign in result, got %#v", result.ActiveCampaign)
	}
}

func TestComputeReferralRewardFailsClosed(t *testing.T) {
	engine := NewEngine()
	if _, err := engine.ComputeReferralReward(nil, Event{Type: EventSignup}, time.Now()); !errors.Is(err, ErrNoActiveConfig) {
		t.Fatalf("expected ErrNoActiveConfig for nil configuration, got %v", err)
	}
	inactive := testConfiguration()
	inactive.IsActive = false
	if _, err := engine.ComputeReferralReward(inactive, Event{Type: EventSignup}, time.Now()); !errors.Is(err, ErrNoActiveConfig) {
		t.Fatalf("expected ErrNoActiveConfig for inactive configuration, got %v", err)
	}
}

func TestComputeReferralRewardOutsideCampaignWindow(t *testing.T) {
	cfg := testConfiguration()
	cfg.Campaigns = []Campaign{
		{
			Name:       "expired",
			StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			Multiplier: 2.0,
			Enabled:    true,
		},
	}
	engine := NewEngine()
	evt := Event{Type: EventSignup, UserTier: "bronze"}
	result, err := engine.ComputeReferralReward(cfg, evt, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Multipliers.Campaign != 1.0 || result.ActiveCampaign != nil {
		t.Fatalf("expected no campaign outside window, got %#v", result)
	}
	if result.ReferrerPoints != 150 || result.ReferredPoints != 75 {
		t.Fatalf("expected base reward 150/75, got %d/%d", result.ReferrerPoints, result.ReferredPoints)
	}
}

func TestDeriveEventID(t *testing.T) {
	a := DeriveEventID("spa-aurora", EventMilestone, "user-9", "first_booking")
	b := DeriveEventID("spa-aurora", EventMilestone, "user-9", "first_booking")
	if a != b {
		t.Fatalf("expected deterministic event id, got %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256 digest, got %q", a)
	}
	if a == DeriveEventID("spa-aurora", EventMilestone, "user-9", "fifth_visit") {
		t.Fatalf("expected distinct ids for distinct milestones")
	}
	if a == DeriveEventID("spa-borealis", EventMilestone, "user-9", "first_booking") {
		t.Fatalf("expected distinct ids for distinct tenants")
	}
	// Field boundaries must not be ambiguous under concatenation.
	if DeriveEventID("ab", EventSignup, "c", "") == DeriveEventID("a", EventSignup, "bc", "") {
		t.Fatalf("expected field separation in the derived id")
	}
}
