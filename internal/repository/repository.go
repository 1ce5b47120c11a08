// Package repository wraps the document store with typed accessors, one
// repository per aggregate, mirroring collection layout:
//
//	clans              clan documents keyed by clan id
//	clan_names         name reservations keyed by normalized name
//	players            per-user ledger keyed by uid
//	clan_bosses        one live boss per clan, keyed by clan id
//	territories        fixed catalog keyed by territory id
//	alliance_requests  proposals keyed by request id
//	trade_offers       proposals keyed by offer id
//	events             game event feed keyed by event id
//	chat:<clanID>      per-clan chat messages keyed by message id
package repository

import (
	"encoding/json"

	"biomistrz-backend/internal/store"
)

const (
	colClans     = "clans"
	colClanNames = "clan_names"
	colPlayers   = "players"
	colBosses    = "clan_bosses"
	colTerritory = "territories"
	colAlliances = "alliance_requests"
	colTrades    = "trade_offers"
	colEvents    = "events"

	chatPrefix = "chat:"
)

// ChatCollection returns the per-clan chat collection name.
func ChatCollection(clanID string) string {
	return chatPrefix + clanID
}

// mutate adapts a typed mutation to the store's byte-level Mutator.
func mutate[T any](fn func(*T) error) store.Mutator {
	return func(current []byte) ([]byte, error) {
		var doc T
		if err := json.Unmarshal(current, &doc); err != nil {
			return nil, err
		}
		if err := fn(&doc); err != nil {
			return nil, err
		}
		return json.Marshal(&doc)
	}
}

// decodeAll unmarshals a listed collection into typed documents.
func decodeAll[T any](docs []store.Doc) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Data, &v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}
