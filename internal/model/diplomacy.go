package model

import "time"

// Proposal lifecycle shared by alliance requests and trade offers.
const (
	ProposalPending  = "pending"
	ProposalAccepted = "accepted"
	ProposalRejected = "rejected"
)

type AllianceRequest struct {
	ID         string     `json:"id"`
	FromClanID string     `json:"from_clan_id"`
	ToClanID   string     `json:"to_clan_id"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

type TradeOffer struct {
	ID             string     `json:"id"`
	ClanID         string     `json:"clan_id"`
	CreatorUID     string     `json:"creator_uid"`
	GemAmount      int64      `json:"gem_amount"`
	RequestedItems []string   `json:"requested_items"`
	Status         string     `json:"status"`
	AcceptedBy     string     `json:"accepted_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// Request types

type RequestAllianceRequest struct {
	ToClanID string `json:"to_clan_id"`
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

type CreateTradeOfferRequest struct {
	GemAmount      int64    `json:"gem_amount"`
	RequestedItems []string `json:"requested_items"`
}

type RespondTradeOfferRequest struct {
	ClanID string `json:"clan_id"`
	Accept bool   `json:"accept"`
}
