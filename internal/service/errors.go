package service

import "errors"

// Sentinel errors shared by the engine services. Handlers map these to
// HTTP statuses in one place; everything unlisted is a 500.
var (
	// Validation
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidAmount = errors.New("invalid amount")

	// Authorization
	ErrNotClanMember = errors.New("not a clan member")
	ErrNotClanLeader = errors.New("insufficient clan permissions")

	// Eligibility
	ErrEloTooLow             = errors.New("elo below required minimum")
	ErrInsufficientResources = errors.New("insufficient resources")

	// Not found
	ErrClanNotFound      = errors.New("clan not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrTerritoryNotFound = errors.New("territory not found")
	ErrOfferNotFound     = errors.New("offer not found")

	// State conflicts
	ErrAlreadyInClan     = errors.New("player is already in a clan")
	ErrAlreadyMember     = errors.New("player is already a member of this clan")
	ErrNameTaken         = errors.New("clan name already taken")
	ErrClanPrivate       = errors.New("clan is invite-only")
	ErrLeaderMustPromote = errors.New("leader must promote a successor or be the last member")
	ErrNoBoss            = errors.New("no boss spawned")
	ErrBossDefeated      = errors.New("boss already defeated")
	ErrBossExpired       = errors.New("boss has expired")
	ErrAlreadyResolved   = errors.New("proposal already resolved")
	ErrInvalidTarget     = errors.New("target clan does not exist")
)
