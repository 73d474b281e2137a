package services

import "errors"

// Domain errors surfaced to handlers. Handlers map these to HTTP statuses;
// anything else is treated as an internal error.
var (
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotVerified          = errors.New("email is not verified")
	ErrInvalidToken         = errors.New("verification token is invalid")
	ErrPlatformIDTaken      = errors.New("platform account is already linked")
	ErrNoPlatformLink       = errors.New("no platform account linked")
	ErrBlacklisted          = errors.New("account is blacklisted")
	ErrFeatureDisabled      = errors.New("feature is disabled")
	ErrUnknownTier          = errors.New("unknown spin tier")
	ErrNoSpinsAvailable     = errors.New("no tickets or spin balance available")
	ErrInsufficientBalance  = errors.New("insufficient available balance")
	ErrWithdrawalNotPending = errors.New("withdrawal is not pending")
)
