package handler

import (
	"encoding/json"
	"log"
	"time"

	"biomistrz-backend/internal/middleware"
	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WSHandler struct {
	hub       *service.WSHub
	jwtSecret []byte
}

func NewWSHandler(hub *service.WSHub, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, jwtSecret: []byte(jwtSecret)}
}

func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		// Validate JWT from query param
		token := c.Query("token")
		if token == "" {
			return c.Status(401).JSON(fiber.Map{"error": "token required"})
		}

		uid, username, err := middleware.ParseToken(token, h.jwtSecret)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals("uid", uid)
		c.Locals("username", username)
		return websocket.New(h.handleConnection)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	uid, _ := c.Locals("uid").(string)
	username, _ := c.Locals("username").(string)

	client := &service.WSClient{
		Conn:     c,
		UID:      uid,
		Username: username,
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Writer goroutine
	go func() {
		defer c.Close()
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	// Reader loop
	c.SetReadDeadline(time.Now().Add(60 * time.Second))
	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		// Reset deadline on any message
		c.SetReadDeadline(time.Now().Add(60 * time.Second))

		var event model.WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}

		switch event.Type {
		case "ping":
			pong, _ := json.Marshal(model.WSEvent{Type: "pong"})
			select {
			case client.Send <- pong:
			default:
			}
		case "subscribe":
			// Client binds itself to its clan channel for clan, boss
			// and chat pushes.
			var sub struct {
				ClanID string `json:"clan_id"`
			}
			if err := json.Unmarshal(event.Data, &sub); err == nil {
				client.ClanID = sub.ClanID
			}
		default:
			log.Printf("WS: unknown event type %s from %s", event.Type, username)
		}
	}
}
