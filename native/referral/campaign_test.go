package referral

import (
	"testing"
	"time"
)

func testCampaign(name string, start, end time.Time, multiplier float64, tenants ...string) Campaign {
	return Campaign{
		Name:          name,
		StartDate:     start,
		EndDate:       end,
		Multiplier:    multiplier,
		Enabled:       true,
		TargetTenants: tenants,
	}
}

func TestMatchCampaignTimeWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	campaigns := []Campaign{testCampaign("march", start, end, 1.5)}

	if got := MatchCampaign(campaigns, "spa-aurora", start.Add(-time.Second)); got != nil {
		t.Fatalf("expected no match before start, got %#v", got)
	}
	if got := MatchCampaign(campaigns, "spa-aurora", start); got == nil {
		t.Fatalf("expected match at start boundary")
	}
	if got := MatchCampaign(campaigns, "spa-aurora", end); got == nil {
		t.Fatalf("expected match at end boundary")
	}
	if got := MatchCampaign(campaigns, "spa-aurora", end.Add(time.Second)); got != nil {
		t.Fatalf("expected no match after end, got %#v", got)
	}
}

func TestMatchCampaignDisabled(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	c := testCampaign("march", start, end, 1.5)
	c.Enabled = false
	if got := MatchCampaign([]Campaign{c}, "spa-aurora", start.Add(time.Hour)); got != nil {
		t.Fatalf("expected disabled campaign to be skipped, got %#v", got)
	}
}

func TestMatchCampaignTargeting(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	now := start.Add(time.Hour)
	campaigns := []Campaign{testCampaign("aurora-only", start, end, 1.5, "spa-aurora")}

	if got := MatchCampaign(campaigns, "spa-aurora", now); got == nil || got.Name != "aurora-only" {
		t.Fatalf("expected targeted tenant to match, got %#v", got)
	}
	if got := MatchCampaign(campaigns, "spa-borealis", now); got != nil {
		t.Fatalf("expected non-targeted tenant to miss, got %#v", got)
	}
	if got := MatchCampaign(campaigns, "", now); got != nil {
		t.Fatalf("expected un-tenanted event to miss targeted campaign, got %#v", got)
	}
}

func TestMatchCampaignPrefersTenantTargeted(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	now := start.Add(time.Hour)
	campaigns := []Campaign{
		testCampaign("global-boost", start, end, 3.0),
		testCampaign("aurora-boost", start, end, 1.2, "spa-aurora"),
	}
	got := MatchCampaign(campaigns, "spa-aurora", now)
	if got == nil || got.Name != "aurora-boost" {
		t.Fatalf("expected tenant-targeted campaign to win over higher global multiplier, got %#v", got)
	}
}

func TestMatchCampaignPrefersHigherMultiplier(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	now := start.Add(time.Hour)
	campaigns := []Campaign{
		testCampaign("mild", start, end, 1.25),
		testCampaign("strong", start, end, 2.0),
	}
	got := MatchCampaign(campaigns, "spa-aurora", now)
	if got == nil || got.Name != "strong" {
		t.Fatalf("expected higher multiplier to win, got %#v", got)
	}
	// Storage order must not influence the outcome.
	reversed := []Campaign{campaigns[1], campaigns[0]}
	got = MatchCampaign(reversed, "spa-aurora", now)
	if got == nil || got.Name != "strong" {
		t.Fatalf("expected selection independent of storage order, got %#v", got)
	}
}

func TestMatchCampaignPrefersEarlierStart(t *testing.T) {
	early := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	campaigns := []Campaign{
		testCampaign("late", late, end, 1.5),
		testCampaign("early", early, end, 1.5),
	}
	got := MatchCampaign(campaigns, "spa-aurora", now)
	if got == nil || got.Name != "early" {
		t.Fatalf("expected earlier start date to win equal multipliers, got %#v", got)
	}
}

func TestMatchCampaignNoMatchIsNil(t *testing.T) {
	if got := MatchCampaign(nil, "spa-aurora", time.Now()); got != nil {
		t.Fatalf("expected nil for empty campaign list, got %#v", got)
	}
}

func TestMatchCampaignReturnsCopy(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	campaigns := []Campaign{testCampaign("march", start, end, 1.5, "spa-aurora")}
	got := MatchCampaign(campaigns, "spa-aurora", start.Add(time.Hour))
	if got == nil {
		t.Fatalf("expected match")
	}
	got.TargetTenants[0] = "mutated"
	if campaigns[0].TargetTenants[0] != "spa-aurora" {
		t.Fatalf("matcher must not alias the source campaign")
	}
}
