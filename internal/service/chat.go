package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/repository"

	"github.com/google/uuid"
)

const maxChatMessageLen = 500

type ChatService struct {
	chat    *repository.ChatRepository
	players *repository.PlayerRepository
	hub     *WSHub
}

func NewChatService(chat *repository.ChatRepository, players *repository.PlayerRepository, hub *WSHub) *ChatService {
	return &ChatService{chat: chat, players: players, hub: hub}
}

func (s *ChatService) Send(ctx context.Context, clanID, uid, text string) (*model.ChatMessage, error) {
	if text == "" || utf8.RuneCountInString(text) > maxChatMessageLen {
		return nil, fmt.Errorf("%w: message must be 1-%d characters", ErrInvalidInput, maxChatMessageLen)
	}

	player, err := s.players.Get(ctx, uid)
	if err != nil {
		return nil, playerErr(err)
	}
	if player.ClanID != clanID {
		return nil, ErrNotClanMember
	}

	msg := &model.ChatMessage{
		ID:           uuid.NewString(),
		SenderID:     uid,
		SenderName:   player.Username,
		SenderAvatar: player.Avatar,
		Text:         text,
		Timestamp:    time.Now(),
	}
	if err := s.chat.Append(ctx, clanID, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		data, _ := json.Marshal(msg)
		s.hub.BroadcastToClan(clanID, &model.WSEvent{Type: "chat:message", Data: data})
	}
	return msg, nil
}

func (s *ChatService) History(ctx context.Context, clanID, uid string, limit int) ([]*model.ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	player, err := s.players.Get(ctx, uid)
	if err != nil {
		return nil, playerErr(err)
	}
	if player.ClanID != clanID {
		return nil, ErrNotClanMember
	}
	return s.chat.History(ctx, clanID, limit)
}
