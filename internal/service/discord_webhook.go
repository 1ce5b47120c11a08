package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// DiscordWebhookService sends rich embeds to Discord channels via webhooks.
type DiscordWebhookService struct {
	webhookEvents string
	webhookClans  string
	client        *http.Client
}

func NewDiscordWebhookService(events, clans string) *DiscordWebhookService {
	return &DiscordWebhookService{
		webhookEvents: events,
		webhookClans:  clans,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

type discordEmbed struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
	Footer      *discordFooter `json:"footer,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

func (s *DiscordWebhookService) send(webhookURL string, payload discordWebhookPayload) {
	if webhookURL == "" {
		return
	}
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[discord-webhook] marshal error: %v", err)
			return
		}
		resp, err := s.client.Post(webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("[discord-webhook] send error: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			log.Printf("[discord-webhook] discord returned %d", resp.StatusCode)
		}
	}()
}

// SendCapture announces a territory changing hands.
func (s *DiscordWebhookService) SendCapture(territoryName, clanName string) {
	s.send(s.webhookEvents, discordWebhookPayload{
		Username: "BioMistrz",
		Embeds: []discordEmbed{{
			Title:       "🚩 Terytorium zdobyte!",
			Description: fmt.Sprintf("Klan **%s** przejął **%s**.", clanName, territoryName),
			Color:       0xE74C3C,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Footer:      &discordFooter{Text: "BioMistrz — wojny klanów"},
		}},
	})
}

// SendBossDefeated announces a raid boss going down.
func (s *DiscordWebhookService) SendBossDefeated(bossName, clanName string, participants int) {
	s.send(s.webhookEvents, discordWebhookPayload{
		Username: "BioMistrz",
		Embeds: []discordEmbed{{
			Title:       "⚔️ Boss pokonany!",
			Description: fmt.Sprintf("Klan **%s** pokonał bossa **%s**.", clanName, bossName),
			Color:       0xF1C40F,
			Fields: []discordField{
				{Name: "Uczestnicy", Value: fmt.Sprintf("%d", participants), Inline: true},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Footer:    &discordFooter{Text: "BioMistrz — rajdy"},
		}},
	})
}

// SendClanEvent posts clan lifecycle changes to the clans channel.
func (s *DiscordWebhookService) SendClanEvent(title, description string) {
	s.send(s.webhookClans, discordWebhookPayload{
		Username: "BioMistrz",
		Embeds: []discordEmbed{{
			Title:       title,
			Description: description,
			Color:       0x3498DB,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	})
}
