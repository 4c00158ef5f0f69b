package referral

import "errors"

var (
	ErrNoActiveConfig      = errors.New("referral: no active configuration")
	ErrInvalidConfig       = errors.New("referral: invalid configuration")
	ErrInvalidOverride     = errors.New("referral: invalid tenant override")
	ErrInvalidCampaign     = errors.New("referral: invalid campaign")
	ErrUnknownEventType    = errors.New("referral: unknown event type")
	ErrMissingMilestoneKey = errors.New("referral: milestone event missing key")
	ErrNegativePurchase    = errors.New("referral: purchase amount must not be negative")
)
