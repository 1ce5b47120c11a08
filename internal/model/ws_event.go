package model

import "encoding/json"

type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WSSnapshot wraps a pushed entity so clients can deduplicate by id and
// drop snapshots older than one already applied.
type WSSnapshot struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Version    int64           `json:"version"`
	Doc        json.RawMessage `json:"doc,omitempty"`
	Deleted    bool            `json:"deleted,omitempty"`
}

type WSAnnounce struct {
	Message string `json:"message"`
}
