package model

import "time"

// Clan member roles. Exactly one leader exists for the lifetime of a clan.
const (
	RoleLeader   = "leader"
	RoleCoLeader = "co-leader"
	RoleMember   = "member"
)

type Clan struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Avatar   string       `json:"avatar"`
	IsPublic bool         `json:"is_public"`
	MinElo   int          `json:"min_elo"`
	Location *MapLocation `json:"location,omitempty"`

	Members map[string]ClanMember `json:"members"`

	// Derived aggregates, recomputed inside every membership mutation.
	TotalElo       int     `json:"total_elo"`
	AverageWinrate float64 `json:"average_winrate"`
	MemberCount    int     `json:"member_count"`

	CreatedAt time.Time `json:"created_at"`
}

type ClanMember struct {
	UID      string    `json:"uid"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
	Role     string    `json:"role"`
	Elo      int       `json:"elo"`
	Wins     int       `json:"wins"`
	Losses   int       `json:"losses"`
	JoinedAt time.Time `json:"joined_at"`
}

type MapLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ClanNameClaim reserves a clan name in the `clan_names` collection,
// keyed by the normalized name. The conditional create on this document
// is what makes name uniqueness race-free.
type ClanNameClaim struct {
	ClanID    string    `json:"clan_id"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// RecomputeAggregates derives totals from the member map. Must be called
// inside the same store mutation as any membership change so the
// aggregates are never stale relative to the map.
func (c *Clan) RecomputeAggregates() {
	c.TotalElo = 0
	c.MemberCount = len(c.Members)
	wins, losses := 0, 0
	for _, m := range c.Members {
		c.TotalElo += m.Elo
		wins += m.Wins
		losses += m.Losses
	}
	if wins+losses > 0 {
		c.AverageWinrate = float64(wins) / float64(wins+losses)
	} else {
		c.AverageWinrate = 0
	}
}

// Request types

type CreateClanRequest struct {
	Name     string       `json:"name"`
	Avatar   string       `json:"avatar"`
	IsPublic bool         `json:"is_public"`
	MinElo   int          `json:"min_elo"`
	Location *MapLocation `json:"location,omitempty"`
}

type AddMemberRequest struct {
	UID string `json:"uid"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}
