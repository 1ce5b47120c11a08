package handler

import (
	"strconv"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatSvc *service.ChatService
}

func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req model.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	msg, err := h.chatSvc.Send(c.Context(), c.Params("id"), uid(c), req.Text)
	if err != nil {
		return apiError(c, err)
	}
	return c.Status(201).JSON(msg)
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	msgs, err := h.chatSvc.History(c.Context(), c.Params("id"), uid(c), limit)
	if err != nil {
		return apiError(c, err)
	}
	if msgs == nil {
		msgs = []*model.ChatMessage{}
	}
	return c.JSON(msgs)
}
