package handler

import (
	"log"

	"biomistrz-backend/internal/client"
	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PlayerHandler struct {
	playerSvc *service.PlayerService
	friends   *client.FriendsClient
}

func NewPlayerHandler(playerSvc *service.PlayerService, friends *client.FriendsClient) *PlayerHandler {
	return &PlayerHandler{playerSvc: playerSvc, friends: friends}
}

func (h *PlayerHandler) GetRanking(c *fiber.Ctx) error {
	ranking, err := h.playerSvc.GetRanking(c.Context(), c.Params("id"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(ranking)
}

func (h *PlayerHandler) GetFriends(c *fiber.Ctx) error {
	friends, err := h.friends.GetFriends(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("[player] friends fetch failed for %s: %v", c.Params("id"), err)
		return c.Status(502).JSON(fiber.Map{"error": "friends service unavailable"})
	}
	if friends == nil {
		friends = []model.Friend{}
	}
	return c.JSON(friends)
}
