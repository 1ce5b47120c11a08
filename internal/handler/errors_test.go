package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"biomistrz-backend/internal/service"
	"biomistrz-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", service.ErrInvalidInput, 400},
		{"invalid amount", service.ErrInvalidAmount, 400},
		{"not a member", service.ErrNotClanMember, 403},
		{"not an officer", service.ErrNotClanLeader, 403},
		{"private clan", service.ErrClanPrivate, 403},
		{"elo too low", service.ErrEloTooLow, 403},
		{"insufficient gems", service.ErrInsufficientResources, 403},
		{"clan not found", service.ErrClanNotFound, 404},
		{"player not found", service.ErrPlayerNotFound, 404},
		{"territory not found", service.ErrTerritoryNotFound, 404},
		{"no boss", service.ErrNoBoss, 404},
		{"already in clan", service.ErrAlreadyInClan, 409},
		{"name taken", service.ErrNameTaken, 409},
		{"boss defeated", service.ErrBossDefeated, 409},
		{"already resolved", service.ErrAlreadyResolved, 409},
		{"contention", store.ErrContention, 409},
		{"store down", store.ErrUnavailable, 503},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return apiError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAPIErrorContentionRetryable(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return apiError(c, store.ErrContention)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"retryable":true`)
}
