package handler

import (
	"encoding/json"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Announcer mirrors admin announcements to the community feed channel.
type Announcer interface {
	Announce(message string)
}

type AdminHandler struct {
	playerSvc *service.PlayerService
	clanSvc   *service.ClanService
	wsHub     *service.WSHub
	announcer Announcer
}

func NewAdminHandler(playerSvc *service.PlayerService, clanSvc *service.ClanService, wsHub *service.WSHub, announcer Announcer) *AdminHandler {
	return &AdminHandler{playerSvc: playerSvc, clanSvc: clanSvc, wsHub: wsHub, announcer: announcer}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	totalPlayers, _ := h.playerSvc.Count(c.Context())
	clans, _ := h.clanSvc.List(c.Context())

	return c.JSON(fiber.Map{
		"players_total":  totalPlayers,
		"players_online": h.wsHub.OnlineCount(),
		"clans_public":   len(clans),
	})
}

func (h *AdminHandler) Announce(c *fiber.Ctx) error {
	var req model.WSAnnounce
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	data, _ := json.Marshal(req)
	h.wsHub.Broadcast(&model.WSEvent{Type: "server:announce", Data: data})
	if h.announcer != nil {
		h.announcer.Announce("📣 " + req.Message)
	}

	return c.JSON(fiber.Map{"ok": true, "online": h.wsHub.OnlineCount()})
}

// Grant credits gems/elo to a player; used by ops and by the main
// backend's reward pipeline.
func (h *AdminHandler) Grant(c *fiber.Ctx) error {
	var req model.GrantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.UID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "uid is required"})
	}

	if err := h.playerSvc.Grant(c.Context(), req.UID, req.Gems, req.Elo); err != nil {
		return apiError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
