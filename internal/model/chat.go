package model

import "time"

// ChatMessage lives in the per-clan `chat:<clanID>` collection,
// append-only, ordered by arrival timestamp.
type ChatMessage struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	SenderAvatar string    `json:"sender_avatar"`
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}
