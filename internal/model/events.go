package model

import "time"

// Game event types recorded in the `events` collection and fanned out to
// the Discord feed.
const (
	EventClanCreated   = "clan_created"
	EventClanDissolved = "clan_dissolved"
	EventCapture       = "territory_captured"
	EventBossDefeated  = "boss_defeated"
)

type GameEvent struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	ClanID    string            `json:"clan_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
