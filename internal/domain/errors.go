package domain

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("user already exists")
	ErrDeviceNotFound        = errors.New("device not found")
	ErrUser2DeviceNotFound   = errors.New("user2device not found")
	ErrRuleSetNotFound       = errors.New("rule set not found")
	ErrRuleSetFixed          = errors.New("rule set with priority 1 is fixed")
	ErrRuleSetNotMovable     = errors.New("rule set cannot be moved in this direction")
	ErrRuleOverrideNotFound  = errors.New("rule override not found")
	ErrRuleOverrideConflict  = errors.New("more than one rule override for user and date")
	ErrTimeExtensionConflict = errors.New("more than one active time extension for user")
	ErrInvalidAccessToken    = errors.New("invalid access token")
	ErrInvalidAccessCode     = errors.New("invalid access code")
	ErrInvalidContext        = errors.New("invalid rule set context")
	ErrInvalidTimeOfDay      = errors.New("invalid time of day")
	ErrExtensionNotPermitted = errors.New("time extension length not permitted")
)
