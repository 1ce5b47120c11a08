package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/repository"

	"github.com/google/uuid"
)

// EventService records game events and fans them out to Discord and the
// WS event ticker. Recording never fails the triggering operation.
type EventService struct {
	events   *repository.EventRepository
	clans    *repository.ClanRepository
	webhooks *DiscordWebhookService
	hub      *WSHub
}

func NewEventService(events *repository.EventRepository, clans *repository.ClanRepository, webhooks *DiscordWebhookService, hub *WSHub) *EventService {
	return &EventService{events: events, clans: clans, webhooks: webhooks, hub: hub}
}

// clanName resolves a display name, falling back to the id when the
// clan is already gone.
func (s *EventService) clanName(ctx context.Context, clanID string) string {
	clan, err := s.clans.Get(ctx, clanID)
	if err != nil {
		return clanID
	}
	return clan.Name
}

func (s *EventService) RecordClanCreated(ctx context.Context, clan *model.Clan) {
	s.record(ctx, &model.GameEvent{
		Type:   model.EventClanCreated,
		ClanID: clan.ID,
		Details: map[string]string{
			"clan_name": clan.Name,
		},
	})
	s.webhooks.SendClanEvent("🛡️ Nowy klan", fmt.Sprintf("Powstał klan **%s**.", clan.Name))
}

func (s *EventService) RecordClanDissolved(ctx context.Context, clan *model.Clan) {
	s.record(ctx, &model.GameEvent{
		Type:   model.EventClanDissolved,
		ClanID: clan.ID,
		Details: map[string]string{
			"clan_name": clan.Name,
		},
	})
	s.webhooks.SendClanEvent("💨 Klan rozwiązany", fmt.Sprintf("Klan **%s** przestał istnieć.", clan.Name))
}

func (s *EventService) RecordCapture(ctx context.Context, territory *model.Territory, clanID string) {
	s.record(ctx, &model.GameEvent{
		Type:   model.EventCapture,
		ClanID: clanID,
		Details: map[string]string{
			"territory_id":   territory.ID,
			"territory_name": territory.Name,
		},
	})
	s.webhooks.SendCapture(territory.Name, s.clanName(ctx, clanID))
}

func (s *EventService) RecordBossDefeated(ctx context.Context, boss *model.ClanBoss) {
	s.record(ctx, &model.GameEvent{
		Type:   model.EventBossDefeated,
		ClanID: boss.ClanID,
		Details: map[string]string{
			"boss_name": boss.Name,
		},
	})
	s.webhooks.SendBossDefeated(boss.Name, s.clanName(ctx, boss.ClanID), len(boss.Participants))
}

func (s *EventService) Recent(ctx context.Context, limit int) ([]*model.GameEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.events.Recent(ctx, limit)
}

func (s *EventService) record(ctx context.Context, ev *model.GameEvent) {
	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now()
	if err := s.events.Append(ctx, ev); err != nil {
		log.Printf("[events] failed to record %s: %v", ev.Type, err)
	}
	if s.hub != nil {
		data, _ := json.Marshal(ev)
		s.hub.Broadcast(&model.WSEvent{Type: "event:" + ev.Type, Data: data})
	}
}
