package model

import "time"

// ClanBoss is the one live raid boss per clan, keyed by clan id in the
// `clan_bosses` collection.
type ClanBoss struct {
	ID     string `json:"id"`
	ClanID string `json:"clan_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Flavor string `json:"flavor"`

	MaxHP     int64 `json:"max_hp"`
	CurrentHP int64 `json:"current_hp"`

	SpawnedAt   time.Time  `json:"spawned_at"`
	ActiveUntil time.Time  `json:"active_until"`
	DefeatedAt  *time.Time `json:"defeated_at,omitempty"`

	// Cumulative damage per attacker uid.
	Participants map[string]int64 `json:"participants"`
	// First-hit sequence, used as the stable tie-break for the ranking.
	HitOrder []string `json:"hit_order"`
}

func (b *ClanBoss) Defeated() bool {
	return b.CurrentHP <= 0
}

func (b *ClanBoss) Expired(now time.Time) bool {
	return !now.Before(b.ActiveUntil)
}

// Attackable reports whether damage may still be recorded.
func (b *ClanBoss) Attackable(now time.Time) bool {
	return b.CurrentHP > 0 && now.Before(b.ActiveUntil)
}

type AttackRequest struct {
	Damage int64 `json:"damage"`
}

type AttackResult struct {
	CurrentHP int64 `json:"current_hp"`
	BossDead  bool  `json:"boss_dead"`
}

type BossRankEntry struct {
	UID    string `json:"uid"`
	Damage int64  `json:"damage"`
}
