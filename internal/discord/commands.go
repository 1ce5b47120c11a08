package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"biomistrz-backend/internal/service"

	"github.com/bwmarrin/discordgo"
)

// CommandHandler processes bot prefix commands.
type CommandHandler struct {
	clanSvc      *service.ClanService
	territorySvc *service.TerritoryService
	bossSvc      *service.BossService
	wsHub        *service.WSHub
}

func NewCommandHandler(
	clanSvc *service.ClanService,
	territorySvc *service.TerritoryService,
	bossSvc *service.BossService,
	wsHub *service.WSHub,
) *CommandHandler {
	return &CommandHandler{
		clanSvc:      clanSvc,
		territorySvc: territorySvc,
		bossSvc:      bossSvc,
		wsHub:        wsHub,
	}
}

// Handle dispatches a prefix command.
func (h *CommandHandler) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	parts := strings.Fields(m.Content)
	if len(parts) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch strings.ToLower(parts[0]) {
	case "!status":
		h.cmdStatus(s, m)
	case "!klany":
		h.cmdClans(ctx, s, m)
	case "!terytoria":
		h.cmdTerritories(ctx, s, m)
	case "!boss":
		if len(parts) < 2 {
			s.ChannelMessageSend(m.ChannelID, "Użycie: `!boss <id klanu>`")
			return
		}
		h.cmdBoss(ctx, s, m, parts[1])
	case "!pomoc":
		h.cmdHelp(s, m)
	}
}

func (h *CommandHandler) cmdStatus(s *discordgo.Session, m *discordgo.MessageCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "BioMistrz — status serwera",
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Graczy online", Value: fmt.Sprintf("%d", h.wsHub.OnlineCount()), Inline: true},
			{Name: "Status", Value: "ONLINE", Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "BioMistrz"},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) cmdClans(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	clans, err := h.clanSvc.List(ctx)
	if err != nil || len(clans) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Brak publicznych klanów.")
		return
	}

	var sb strings.Builder
	limit := min(len(clans), 10)
	for i := 0; i < limit; i++ {
		c := clans[i]
		fmt.Fprintf(&sb, "**%d.** %s — %d ELO, %d członków\n", i+1, c.Name, c.TotalElo, c.MemberCount)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Ranking klanów",
		Description: sb.String(),
		Color:       0x3498DB,
		Footer:      &discordgo.MessageEmbedFooter{Text: "BioMistrz"},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) cmdTerritories(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	territories, err := h.territorySvc.List(ctx)
	if err != nil || len(territories) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Brak danych o terytoriach.")
		return
	}

	var sb strings.Builder
	for _, t := range territories {
		owner := "niczyje"
		if t.OwnerClanID != "" {
			if clan, err := h.clanSvc.Get(ctx, t.OwnerClanID); err == nil {
				owner = clan.Name
			} else {
				owner = t.OwnerClanID
			}
		}
		fmt.Fprintf(&sb, "**%s** — %s\n", t.Name, owner)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🗺️ Terytoria",
		Description: sb.String(),
		Color:       0xE67E22,
		Footer:      &discordgo.MessageEmbedFooter{Text: "BioMistrz"},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) cmdBoss(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, clanID string) {
	boss, err := h.bossSvc.SpawnIfNeeded(ctx, clanID)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Klan `%s` nie istnieje.", clanID))
		return
	}

	state := "żywy"
	if boss.Defeated() {
		state = "pokonany"
	} else if boss.Expired(time.Now()) {
		state = "wygasł"
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚔️ %s", boss.Name),
		Description: boss.Flavor,
		Color:       0xE74C3C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "HP", Value: fmt.Sprintf("%d / %d", boss.CurrentHP, boss.MaxHP), Inline: true},
			{Name: "Stan", Value: state, Inline: true},
			{Name: "Uczestnicy", Value: fmt.Sprintf("%d", len(boss.Participants)), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "BioMistrz — rajdy"},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) cmdHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	s.ChannelMessageSend(m.ChannelID,
		"**Komendy:**\n"+
			"`!status` — status serwera\n"+
			"`!klany` — ranking publicznych klanów\n"+
			"`!terytoria` — mapa terytoriów i właściciele\n"+
			"`!boss <id klanu>` — aktualny boss klanu\n"+
			"`!pomoc` — ta wiadomość")
}
