package handler

import (
	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ClanHandler struct {
	clanSvc *service.ClanService
}

func NewClanHandler(clanSvc *service.ClanService) *ClanHandler {
	return &ClanHandler{clanSvc: clanSvc}
}

func (h *ClanHandler) Create(c *fiber.Ctx) error {
	var req model.CreateClanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	clan, err := h.clanSvc.Create(c.Context(), uid(c), &req)
	if err != nil {
		return apiError(c, err)
	}
	return c.Status(201).JSON(clan)
}

func (h *ClanHandler) Get(c *fiber.Ctx) error {
	clan, err := h.clanSvc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(clan)
}

func (h *ClanHandler) List(c *fiber.Ctx) error {
	clans, err := h.clanSvc.List(c.Context())
	if err != nil {
		return apiError(c, err)
	}
	if clans == nil {
		clans = []*model.Clan{}
	}
	return c.JSON(clans)
}

func (h *ClanHandler) GetMembers(c *fiber.Ctx) error {
	members, err := h.clanSvc.GetMembers(c.Context(), c.Params("id"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(members)
}

func (h *ClanHandler) Join(c *fiber.Ctx) error {
	if err := h.clanSvc.Join(c.Context(), c.Params("id"), uid(c)); err != nil {
		return apiError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ClanHandler) Leave(c *fiber.Ctx) error {
	if err := h.clanSvc.Leave(c.Context(), c.Params("id"), uid(c)); err != nil {
		return apiError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ClanHandler) AddMember(c *fiber.Ctx) error {
	var req model.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.UID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "uid is required"})
	}

	if err := h.clanSvc.AddMember(c.Context(), c.Params("id"), uid(c), req.UID); err != nil {
		return apiError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"ok": true})
}

func (h *ClanHandler) Kick(c *fiber.Ctx) error {
	if err := h.clanSvc.Kick(c.Context(), c.Params("id"), uid(c), c.Params("uid")); err != nil {
		return apiError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ClanHandler) SetRole(c *fiber.Ctx) error {
	var req model.SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.clanSvc.SetRole(c.Context(), c.Params("id"), uid(c), c.Params("uid"), req.Role); err != nil {
		return apiError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
