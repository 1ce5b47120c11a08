package service

import (
	"encoding/json"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"
)

// LiveBridge subscribes to store changes and pushes entity snapshots to
// WS clients. Snapshots carry id and version so consumers can drop
// anything older than what they already applied; delivery order is not
// guaranteed.
type LiveBridge struct {
	store  store.Store
	hub    *WSHub
	unsubs []func()
}

func NewLiveBridge(s store.Store, hub *WSHub) *LiveBridge {
	return &LiveBridge{store: s, hub: hub}
}

// Start wires the subscriptions. Territory changes go to everyone; clan
// and boss documents go to the affected clan only.
func (b *LiveBridge) Start() {
	b.unsubs = append(b.unsubs,
		b.store.Subscribe("territories", "", func(ev store.Event) {
			b.hub.Broadcast(b.snapshotEvent("territory:update", ev))
		}),
		b.store.Subscribe("clans", "", func(ev store.Event) {
			b.hub.BroadcastToClan(ev.ID, b.snapshotEvent("clan:update", ev))
		}),
		b.store.Subscribe("clan_bosses", "", func(ev store.Event) {
			b.hub.BroadcastToClan(ev.ID, b.snapshotEvent("boss:update", ev))
		}),
	)
}

func (b *LiveBridge) Stop() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
}

func (b *LiveBridge) snapshotEvent(eventType string, ev store.Event) *model.WSEvent {
	snap := model.WSSnapshot{
		Collection: ev.Collection,
		ID:         ev.ID,
		Version:    ev.Version,
		Doc:        ev.Data,
		Deleted:    ev.Deleted,
	}
	data, _ := json.Marshal(snap)
	return &model.WSEvent{Type: eventType, Data: data}
}
