package model

// Territory is one entry of the fixed map catalog in the `territories`
// collection. Territories are only ever mutated, never created or
// destroyed by gameplay.
type Territory struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Location TerritoryLocation `json:"location"`

	OwnerClanID string `json:"owner_clan_id,omitempty"`
	// Cumulative contribution points per clan id. Never reset, never
	// decremented.
	ContestedBy map[string]int64 `json:"contested_by"`

	Yield ResourceYield `json:"yield"`
}

type TerritoryLocation struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius"`
}

type ResourceYield struct {
	Gems int64 `json:"gems"`
	Elo  int   `json:"elo"`
}

type ContributeRequest struct {
	ClanID string `json:"clan_id"`
	Amount int64  `json:"amount"`
}

type ContributeResult struct {
	Total    int64  `json:"total"`
	Owner    string `json:"owner,omitempty"`
	Captured bool   `json:"captured"`
}
