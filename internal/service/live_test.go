package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForClients(t *testing.T, hub *WSHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.OnlineCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients", n)
		}
		time.Sleep(time.Millisecond)
	}
}

func recvEvent(t *testing.T, ch chan []byte) model.WSEvent {
	t.Helper()
	select {
	case raw := <-ch:
		var ev model.WSEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for WS event")
		return model.WSEvent{}
	}
}

func TestLiveBridgeTerritoryBroadcast(t *testing.T) {
	mem := store.NewMemory()
	hub := NewWSHub()
	go hub.Run()
	defer hub.Shutdown()

	client := &WSClient{UID: "u1", Username: "u1", Send: make(chan []byte, 16)}
	hub.Register(client)
	waitForClients(t, hub, 1)

	bridge := NewLiveBridge(mem, hub)
	bridge.Start()
	defer bridge.Stop()

	err := mem.Put(context.Background(), "territories", "warszawa", &model.Territory{
		ID:   "warszawa",
		Name: "Warszawa",
	})
	require.NoError(t, err)

	ev := recvEvent(t, client.Send)
	assert.Equal(t, "territory:update", ev.Type)

	var snap model.WSSnapshot
	require.NoError(t, json.Unmarshal(ev.Data, &snap))
	assert.Equal(t, "territories", snap.Collection)
	assert.Equal(t, "warszawa", snap.ID)
	assert.Equal(t, int64(1), snap.Version)
}

func TestLiveBridgeClanScoped(t *testing.T) {
	mem := store.NewMemory()
	hub := NewWSHub()
	go hub.Run()
	defer hub.Shutdown()

	insider := &WSClient{UID: "in", Username: "in", ClanID: "c1", Send: make(chan []byte, 16)}
	outsider := &WSClient{UID: "out", Username: "out", ClanID: "c2", Send: make(chan []byte, 16)}
	hub.Register(insider)
	hub.Register(outsider)
	waitForClients(t, hub, 2)

	bridge := NewLiveBridge(mem, hub)
	bridge.Start()
	defer bridge.Stop()

	err := mem.Put(context.Background(), "clan_bosses", "c1", &model.ClanBoss{ID: "b1", ClanID: "c1"})
	require.NoError(t, err)

	ev := recvEvent(t, insider.Send)
	assert.Equal(t, "boss:update", ev.Type)

	select {
	case <-outsider.Send:
		t.Fatal("boss update leaked to another clan")
	case <-time.After(100 * time.Millisecond):
	}
}
