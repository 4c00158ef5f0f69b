package referral

const (
	// DefaultConfigName is the name of the single globally active
	// configuration document.
	DefaultConfigName = "default"
	// DefaultTierMultiplier applies when a user's tier is absent from the
	// configured multiplier map.
	DefaultTierMultiplier = 1.0
	// DefaultCodeExpiryDays is the referral code validity applied when the
	// stored settings leave the expiry unset.
	DefaultCodeExpiryDays = 30
	// DefaultMaxReferralsPerUser caps how many referrals a single user may
	// earn rewards for when the stored settings leave the cap unset.
	DefaultMaxReferralsPerUser = 50
)

// ApplyDefaults ensures unset fields fall back to module defaults.
func (c *Configuration) ApplyDefaults() *Configuration {
	if c == nil {
		return nil
	}
	if c.Name == "" {
		c.Name = DefaultConfigName
	}
	if c.Settings.CodeExpiryDays == 0 {
		c.Settings.CodeExpiryDays = DefaultCodeExpiryDays
	}
	if c.Settings.MaxReferralsPerUser == 0 {
		c.Settings.MaxReferralsPerUser = DefaultMaxReferralsPerUser
	}
	return c
}

// DefaultConfiguration returns the configuration auto-provisioned when no
// active document exists yet. The values mirror the out-of-the-box referral
// program: modest signup and first-purchase rewards and the standard tier
// ladder.
func DefaultConfiguration() *Configuration {
	cfg := &Configuration{
		Name:     DefaultConfigName,
		IsActive: true,
		SignupReward: RewardSetting{
			Enabled:        true,
			ReferrerPoints: 100,
			ReferredPoints: 50,
			Description:    "Referred friend completed signup",
		},
		FirstPurchaseReward: RewardSetting{
			Enabled:        true,
			ReferrerPoints: 200,
			ReferredPoints: 100,
			Description:    "Referred friend completed first purchase",
		},
		MilestoneRewards: []MilestoneReward{
			{
				Milestone:      "first_booking",
				ReferrerPoints: 150,
				ReferredPoints: 75,
				Enabled:        true,
				Description:    "Referred friend completed first booking",
			},
		},
		TierMultipliers: map[string]float64{
			"bronze":   1.0,
			"gold":     1.5,
			"platinum": 2.0,
		},
		Settings: Settings{
			AutoApprove:      true,
			NotifyOnReferral: true,
		},
	}
	return cfg.Normalize()
}
