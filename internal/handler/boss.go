package handler

import (
	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BossHandler struct {
	bossSvc *service.BossService
}

func NewBossHandler(bossSvc *service.BossService) *BossHandler {
	return &BossHandler{bossSvc: bossSvc}
}

// Get spawns lazily: opening the raid screen is what brings a boss into
// existence when the previous one is resolved.
func (h *BossHandler) Get(c *fiber.Ctx) error {
	boss, err := h.bossSvc.SpawnIfNeeded(c.Context(), c.Params("id"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(boss)
}

func (h *BossHandler) Attack(c *fiber.Ctx) error {
	var req model.AttackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.bossSvc.Attack(c.Context(), c.Params("id"), uid(c), req.Damage)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(result)
}

func (h *BossHandler) Ranking(c *fiber.Ctx) error {
	ranking, err := h.bossSvc.Ranking(c.Context(), c.Params("id"))
	if err != nil {
		return apiError(c, err)
	}
	if ranking == nil {
		ranking = []model.BossRankEntry{}
	}
	return c.JSON(ranking)
}
