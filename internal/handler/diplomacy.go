package handler

import (
	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DiplomacyHandler struct {
	diplomacySvc *service.DiplomacyService
}

func NewDiplomacyHandler(diplomacySvc *service.DiplomacyService) *DiplomacyHandler {
	return &DiplomacyHandler{diplomacySvc: diplomacySvc}
}

func (h *DiplomacyHandler) RequestAlliance(c *fiber.Ctx) error {
	var req model.RequestAllianceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ToClanID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "to_clan_id is required"})
	}

	alliance, err := h.diplomacySvc.RequestAlliance(c.Context(), uid(c), c.Params("id"), req.ToClanID)
	if err != nil {
		return apiError(c, err)
	}
	return c.Status(201).JSON(alliance)
}

func (h *DiplomacyHandler) RespondAlliance(c *fiber.Ctx) error {
	var req model.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.diplomacySvc.RespondAlliance(c.Context(), uid(c), c.Params("rid"), req.Accept); err != nil {
		return apiError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *DiplomacyHandler) ListAlliances(c *fiber.Ctx) error {
	alliances, err := h.diplomacySvc.ListAlliances(c.Context(), c.Params("id"))
	if err != nil {
		return apiError(c, err)
	}
	if alliances == nil {
		alliances = []*model.AllianceRequest{}
	}
	return c.JSON(alliances)
}

func (h *DiplomacyHandler) CreateTradeOffer(c *fiber.Ctx) error {
	var req model.CreateTradeOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	offer, err := h.diplomacySvc.CreateTradeOffer(c.Context(), uid(c), c.Params("id"), req.GemAmount, req.RequestedItems)
	if err != nil {
		return apiError(c, err)
	}
	return c.Status(201).JSON(offer)
}

func (h *DiplomacyHandler) RespondTradeOffer(c *fiber.Ctx) error {
	var req model.RespondTradeOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ClanID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "clan_id is required"})
	}

	if err := h.diplomacySvc.RespondTradeOffer(c.Context(), uid(c), c.Params("oid"), req.ClanID, req.Accept); err != nil {
		return apiError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *DiplomacyHandler) ListOpenOffers(c *fiber.Ctx) error {
	offers, err := h.diplomacySvc.ListOpenOffers(c.Context())
	if err != nil {
		return apiError(c, err)
	}
	if offers == nil {
		offers = []*model.TradeOffer{}
	}
	return c.JSON(offers)
}
