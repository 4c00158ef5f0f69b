package referral

import "time"

// EventType identifies the referral trigger being rewarded.
type EventType string

const (
	// EventSignup rewards the completion of a referred signup.
	EventSignup EventType = "signup"
	// EventFirstPurchase rewards the referred user's first purchase.
	EventFirstPurchase EventType = "first_purchase"
	// EventMilestone rewards a named milestone such as "first_booking".
	EventMilestone EventType = "milestone"
)

// Event captures a single referral-triggering occurrence as reported by the
// caller. PurchaseAmount is zero for events without a monetary component.
type Event struct {
	Type           EventType
	Milestone      string
	TenantID       string
	UserTier       string
	PurchaseAmount float64
}

// RewardSetting configures the points granted for a signup or first-purchase
// trigger. Disabled settings contribute a zero base reward.
type RewardSetting struct {
	Enabled        bool   `yaml:"enabled" json:"enabled"`
	ReferrerPoints int    `yaml:"referrerPoints" json:"referrerPoints"`
	ReferredPoints int    `yaml:"referredPoints" json:"referredPoints"`
	Description    string `yaml:"description" json:"description"`
}

// MilestoneReward configures the points granted when a named milestone is
// reached. Milestone keys are unique within a configuration.
type MilestoneReward struct {
	Milestone      string `yaml:"milestone" json:"milestone"`
	ReferrerPoints int    `yaml:"referrerPoints" json:"referrerPoints"`
	ReferredPoints int    `yaml:"referredPoints" json:"referredPoints"`
	Enabled        bool   `yaml:"enabled" json:"enabled"`
	Description    string `yaml:"description" json:"description"`
}

// Settings holds the tenant-agnostic referral program knobs that ride along
// with the reward configuration.
type Settings struct {
	CodeExpiryDays      int  `yaml:"codeExpiryDays" json:"codeExpiryDays"`
	MaxReferralsPerUser int  `yaml:"maxReferralsPerUser" json:"maxReferralsPerUser"`
	AutoApprove         bool `yaml:"autoApprove" json:"autoApprove"`
	AllowSelfReferral   bool `yaml:"allowSelfReferral" json:"allowSelfReferral"`
	NotifyOnReferral    bool `yaml:"notifyOnReferral" json:"notifyOnReferral"`
}

// CampaignConditions gates a campaign multiplier on properties of the event
// itself. MinPurchase is evaluated at calculation time against the purchase
// amount; UserTypes is carried for admin tooling and not evaluated by the
// calculator because events carry no new/existing classification.
type CampaignConditions struct {
	MinPurchase float64  `yaml:"minPurchase" json:"minPurchase"`
	UserTypes   []string `yaml:"userTypes" json:"userTypes"`
}

// Campaign is a time-boxed promotional multiplier, optionally scoped to a set
// of tenants. An empty TargetTenants set applies the campaign to all tenants.
type Campaign struct {
	Name          string             `yaml:"name" json:"name"`
	Description   string             `yaml:"description" json:"description"`
	StartDate     time.Time          `yaml:"startDate" json:"startDate"`
	EndDate       time.Time          `yaml:"endDate" json:"endDate"`
	Multiplier    float64            `yaml:"multiplier" json:"multiplier"`
	Enabled       bool               `yaml:"enabled" json:"enabled"`
	TargetTenants []string           `yaml:"targetTenants" json:"targetTenants"`
	Conditions    CampaignConditions `yaml:"conditions" json:"conditions"`
}

// TenantOverride replaces the reward and settings blocks of the global
// configuration for a single tenant. Overrides are all-or-nothing per field
// group; there is no per-key merge with the global defaults.
type TenantOverride struct {
	TenantID            string            `yaml:"tenantId" json:"tenantId"`
	TenantName          string            `yaml:"tenantName" json:"tenantName"`
	OwnerID             string            `yaml:"ownerId" json:"ownerId"`
	SignupReward        RewardSetting     `yaml:"signupReward" json:"signupReward"`
	FirstPurchaseReward RewardSetting     `yaml:"firstPurchaseReward" json:"firstPurchaseReward"`
	MilestoneRewards    []MilestoneReward `yaml:"milestoneRewards" json:"milestoneRewards"`
	Settings            Settings          `yaml:"settings" json:"settings"`
}

// Configuration is the root aggregate driving the reward engine. Exactly one
// configuration is active globally (Name == "default", IsActive == true).
type Configuration struct {
	Name                string             `yaml:"name" json:"name"`
	IsActive            bool               `yaml:"isActive" json:"isActive"`
	SignupReward        RewardSetting      `yaml:"signupReward" json:"signupReward"`
	FirstPurchaseReward RewardSetting      `yaml:"firstPurchaseReward" json:"firstPurchaseReward"`
	MilestoneRewards    []MilestoneReward  `yaml:"milestoneRewards" json:"milestoneRewards"`
	TierMultipliers     map[string]float64 `yaml:"tierMultipliers" json:"tierMultipliers"`
	Settings            Settings           `yaml:"settings" json:"settings"`
	Campaigns           []Campaign         `yaml:"campaigns" json:"campaigns"`
	TenantOverrides     []TenantOverride   `yaml:"tenantOverrides" json:"tenantOverrides"`
}

// EffectiveConfig is the per-tenant view produced by ResolveConfig. The
// OverrideApplied flag records whether a tenant override was used, for
// auditability.
type EffectiveConfig struct {
	TenantID            string
	TenantName          string
	OverrideApplied     bool
	SignupReward        RewardSetting
	FirstPurchaseReward RewardSetting
	MilestoneRewards    []MilestoneReward
	Settings            Settings
}

// AppliedMultipliers records the multiplier breakdown of a computation so the
// caller can explain the awarded amount without re-deriving it.
type AppliedMultipliers struct {
	Tier     float64 `json:"tier"`
	Campaign float64 `json:"campaign"`
	Final    float64 `json:"final"`
}

// ResolvedTenant identifies the tenant the computation resolved against.
type ResolvedTenant struct {
	TenantID   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
}

// RewardResult is the immutable outcome of a single reward computation.
// ActiveCampaign is nil when no campaign applied to the event, including the
// case where a time-eligible campaign failed its purchase condition; the
// multiplier breakdown is always populated.
type RewardResult struct {
	ReferrerPoints int                `json:"referrerPoints"`
	ReferredPoints int                `json:"referredPoints"`
	Multipliers    AppliedMultipliers `json:"appliedMultipliers"`
	ActiveCampaign *Campaign          `json:"activeCampaign,omitempty"`
	Tenant         ResolvedTenant     `json:"resolvedTenant"`
}
