package handler

import (
	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TerritoryHandler struct {
	territorySvc *service.TerritoryService
}

func NewTerritoryHandler(territorySvc *service.TerritoryService) *TerritoryHandler {
	return &TerritoryHandler{territorySvc: territorySvc}
}

func (h *TerritoryHandler) List(c *fiber.Ctx) error {
	territories, err := h.territorySvc.List(c.Context())
	if err != nil {
		return apiError(c, err)
	}
	if territories == nil {
		territories = []*model.Territory{}
	}
	return c.JSON(territories)
}

func (h *TerritoryHandler) Get(c *fiber.Ctx) error {
	territory, err := h.territorySvc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(territory)
}

func (h *TerritoryHandler) Contribute(c *fiber.Ctx) error {
	var req model.ContributeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ClanID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "clan_id is required"})
	}

	result, err := h.territorySvc.Contribute(c.Context(), c.Params("id"), uid(c), req.ClanID, req.Amount)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(result)
}
