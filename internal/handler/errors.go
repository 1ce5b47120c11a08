package handler

import (
	"errors"
	"log"

	"biomistrz-backend/internal/service"
	"biomistrz-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// apiError maps service sentinels onto HTTP statuses. Contention gets a
// retryable flag so clients know a replay may succeed.
func apiError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidAmount):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrNotClanMember),
		errors.Is(err, service.ErrNotClanLeader),
		errors.Is(err, service.ErrClanPrivate):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrEloTooLow),
		errors.Is(err, service.ErrInsufficientResources):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrClanNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrTerritoryNotFound),
		errors.Is(err, service.ErrOfferNotFound),
		errors.Is(err, service.ErrNoBoss):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrAlreadyInClan),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrLeaderMustPromote),
		errors.Is(err, service.ErrBossDefeated),
		errors.Is(err, service.ErrBossExpired),
		errors.Is(err, service.ErrAlreadyResolved),
		errors.Is(err, service.ErrInvalidTarget):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, store.ErrContention):
		return c.Status(409).JSON(fiber.Map{"error": "too much contention, try again", "retryable": true})

	case errors.Is(err, store.ErrUnavailable):
		return c.Status(503).JSON(fiber.Map{"error": "store unavailable"})

	default:
		log.Printf("[api] unhandled error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}

func uid(c *fiber.Ctx) string {
	v, _ := c.Locals("uid").(string)
	return v
}
