package referral

import (
	"fmt"
	"strings"
)

// Clone produces a deep copy of the configuration.
func (c *Configuration) Clone() *Configuration {
	if c == nil {
		return nil
	}
	clone := &Configuration{
		Name:                c.Name,
		IsActive:            c.IsActive,
		SignupReward:        c.SignupReward,
		FirstPurchaseReward: c.FirstPurchaseReward,
		Settings:            c.Settings,
	}
	if len(c.MilestoneRewards) > 0 {
		clone.MilestoneRewards = append([]MilestoneReward(nil), c.MilestoneRewards...)
	}
	if len(c.TierMultipliers) > 0 {
		clone.TierMultipliers = make(map[string]float64, len(c.TierMultipliers))
		for tier, mult := range c.TierMultipliers {
			clone.TierMultipliers[tier] = mult
		}
	}
	if len(c.Campaigns) > 0 {
		clone.Campaigns = make([]Campaign, len(c.Campaigns))
		for i, campaign := range c.Campaigns {
			clone.Campaigns[i] = campaign.Clone()
		}
	}
	if len(c.TenantOverrides) > 0 {
		clone.TenantOverrides = make([]TenantOverride, len(c.TenantOverrides))
		for i, ov := range c.TenantOverrides {
			clone.TenantOverrides[i] = ov.Clone()
		}
	}
	return clone
}

// Clone produces a deep copy of the campaign.
func (c Campaign) Clone() Campaign {
	clone := c
	if len(c.TargetTenants) > 0 {
		clone.TargetTenants = append([]string(nil), c.TargetTenants...)
	}
	if len(c.Conditions.UserTypes) > 0 {
		clone.Conditions.UserTypes = append([]string(nil), c.Conditions.UserTypes...)
	}
	return clone
}

// Clone produces a deep copy of the tenant override.
func (o TenantOverride) Clone() TenantOverride {
	clone := o
	if len(o.MilestoneRewards) > 0 {
		clone.MilestoneRewards = append([]MilestoneReward(nil), o.MilestoneRewards...)
	}
	return clone
}

// Normalize trims identifier fields and ensures collection fields are non-nil
// for ease of use. The method returns the receiver to allow chaining.
func (c *Configuration) Normalize() *Configuration {
	if c == nil {
		return nil
	}
	c.ApplyDefaults()
	c.Name = strings.TrimSpace(c.Name)
	if c.MilestoneRewards == nil {
		c.MilestoneRewards = []MilestoneReward{}
	}
	if c.TierMultipliers == nil {
		c.TierMultipliers = map[string]float64{}
	}
	if c.Campaigns == nil {
		c.Campaigns = []Campaign{}
	}
	if c.TenantOverrides == nil {
		c.TenantOverrides = []TenantOverride{}
	}
	for i := range c.MilestoneRewards {
		c.MilestoneRewards[i].Milestone = strings.TrimSpace(c.MilestoneRewards[i].Milestone)
	}
	for i := range c.Campaigns {
		c.Campaigns[i].Name = strings.TrimSpace(c.Campaigns[i].Name)
		if c.Campaigns[i].TargetTenants == nil {
			c.Campaigns[i].TargetTenants = []string{}
		}
		if c.Campaigns[i].Conditions.UserTypes == nil {
			c.Campaigns[i].Conditions.UserTypes = []string{}
		}
	}
	for i := range c.TenantOverrides {
		c.TenantOverrides[i].TenantID = strings.TrimSpace(c.TenantOverrides[i].TenantID)
		if c.TenantOverrides[i].MilestoneRewards == nil {
			c.TenantOverrides[i].MilestoneRewards = []MilestoneReward{}
		}
	}
	return c
}

// Validate performs static validation of the configuration.
func (c *Configuration) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil configuration", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidConfig)
	}
	if err := validateRewardSetting("signupReward", c.SignupReward); err != nil {
		return err
	}
	if err := validateRewardSetting("firstPurchaseReward", c.FirstPurchaseReward); err != nil {
		return err
	}
	if err := validateMilestones(c.MilestoneRewards); err != nil {
		return err
	}
	for tier, mult := range c.TierMultipliers {
		if strings.TrimSpace(tier) == "" {
			return fmt.Errorf("%w: tier name must not be empty", ErrInvalidConfig)
		}
		if mult <= 0 {
			return fmt.Errorf("%w: tier %s multiplier must be positive", ErrInvalidConfig, tier)
		}
	}
	for i := range c.Campaigns {
		if err := c.Campaigns[i].Validate(); err != nil {
			return err
		}
	}
	seen := make(map[string]struct{}, len(c.TenantOverrides))
	for i := range c.TenantOverrides {
		ov := &c.TenantOverrides[i]
		if strings.TrimSpace(ov.TenantID) == "" {
			return fmt.Errorf("%w: tenant id must not be empty", ErrInvalidOverride)
		}
		if _, dup := seen[ov.TenantID]; dup {
			return fmt.Errorf("%w: duplicate override for tenant %s", ErrInvalidOverride, ov.TenantID)
		}
		seen[ov.TenantID] = struct{}{}
		if err := validateRewardSetting("signupReward", ov.SignupReward); err != nil {
			return fmt.Errorf("tenant %s: %w", ov.TenantID, err)
		}
		if err := validateRewardSetting("firstPurchaseReward", ov.FirstPurchaseReward); err != nil {
			return fmt.Errorf("tenant %s: %w", ov.TenantID, err)
		}
		if err := validateMilestones(ov.MilestoneRewards); err != nil {
			return fmt.Errorf("tenant %s: %w", ov.TenantID, err)
		}
	}
	return nil
}

// Validate enforces bounds on a single campaign.
func (c *Campaign) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil campaign", ErrInvalidCampaign)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidCampaign)
	}
	if c.Multiplier <= 0 {
		return fmt.Errorf("%w: %s multiplier must be positive", ErrInvalidCampaign, c.Name)
	}
	if !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: %s end date before start date", ErrInvalidCampaign, c.Name)
	}
	if c.Conditions.MinPurchase < 0 {
		return fmt.Errorf("%w: %s minPurchase must not be negative", ErrInvalidCampaign, c.Name)
	}
	return nil
}

func validateRewardSetting(field string, rs RewardSetting) error {
	if rs.ReferrerPoints < 0 || rs.ReferredPoints < 0 {
		return fmt.Errorf("%w: %s points must not be negative", ErrInvalidConfig, field)
	}
	return nil
}

func validateMilestones(rewards []MilestoneReward) error {
	seen := make(map[string]struct{}, len(rewards))
	for i := range rewards {
		key := strings.TrimSpace(rewards[i].Milestone)
		if key == "" {
			return fmt.Errorf("%w: milestone key must not be empty", ErrInvalidConfig)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate milestone %s", ErrInvalidConfig, key)
		}
		seen[key] = struct{}{}
		if rewards[i].ReferrerPoints < 0 || rewards[i].ReferredPoints < 0 {
			return fmt.Errorf("%w: milestone %s points must not be negative", ErrInvalidConfig, key)
		}
	}
	return nil
}
