// Package discord hosts the optional community bot: status commands in
// the guild plus announcements for captures and boss defeats.
package discord

import (
	"log"
	"strings"

	"biomistrz-backend/internal/service"

	"github.com/bwmarrin/discordgo"
)

// Bot manages the Discord bot lifecycle and command dispatch.
type Bot struct {
	session       *discordgo.Session
	guildID       string
	feedChannelID string
	commands      *CommandHandler
}

// NewBot creates and configures the bot. A missing token disables it.
func NewBot(
	token string,
	guildID string,
	feedChannelID string,
	clanSvc *service.ClanService,
	territorySvc *service.TerritoryService,
	bossSvc *service.BossService,
	wsHub *service.WSHub,
) (*Bot, error) {
	if token == "" {
		log.Println("[discord-bot] No bot token configured, bot disabled")
		return nil, nil
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	bot := &Bot{
		session:       s,
		guildID:       guildID,
		feedChannelID: feedChannelID,
		commands:      NewCommandHandler(clanSvc, territorySvc, bossSvc, wsHub),
	}

	s.AddHandler(bot.onMessageCreate)

	return bot, nil
}

// Start opens the Discord gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return err
	}
	log.Println("[discord-bot] Connected to gateway")
	return nil
}

func (b *Bot) Stop() {
	if b == nil || b.session == nil {
		return
	}
	_ = b.session.Close()
}

// Announce posts a plain message to the configured feed channel.
func (b *Bot) Announce(message string) {
	if b == nil || b.feedChannelID == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(b.feedChannelID, message); err != nil {
		log.Printf("[discord-bot] announce failed: %v", err)
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot {
		return
	}
	if b.guildID != "" && m.GuildID != "" && m.GuildID != b.guildID {
		return
	}
	if !strings.HasPrefix(m.Content, "!") {
		return
	}
	b.commands.Handle(s, m)
}
