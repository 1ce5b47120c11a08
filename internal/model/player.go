package model

// Player is the per-user ledger document in the `players` collection.
// Identity (registration, login) lives in the main quiz backend; this
// service only reads and mutates the game-side balances.
type Player struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Elo      int    `json:"elo"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Gems     int64  `json:"gems"`
	ClanID   string `json:"clan_id,omitempty"`
}

type PlayerRanking struct {
	UID    string `json:"uid"`
	Elo    int    `json:"elo"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

type Friend struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Elo      int    `json:"elo"`
}

type GrantRequest struct {
	UID  string `json:"uid"`
	Gems int64  `json:"gems"`
	Elo  int    `json:"elo"`
}
