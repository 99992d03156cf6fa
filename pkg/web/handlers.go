package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"chatbridge/pkg/chat"
	"chatbridge/pkg/transcript"

	"github.com/gofiber/fiber/v2"
)

// Completer answers one prompt. *chat.Bridge implements it.
type Completer interface {
	Complete(ctx context.Context, prompt string) chat.Result
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type historyResponse struct {
	Turns []transcript.Turn `json:"turns"`
}

// ChatHandler serves the chat action and the transcript.
type ChatHandler struct {
	bridge     Completer
	transcript *transcript.Transcript
}

func NewChatHandler(bridge Completer, tr *transcript.Transcript) *ChatHandler {
	return &ChatHandler{bridge: bridge, transcript: tr}
}

// Chat answers {"prompt": "..."} with {"response": "..."} or {"error": "..."}.
// A failed completion is still a 200; only a malformed request is a 4xx.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid JSON body")
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return writeError(c, http.StatusBadRequest, "prompt is required")
	}

	slog.Info("web_chat_request", "prompt_len", len(prompt), "ip", c.IP())
	result := h.bridge.Complete(c.UserContext(), prompt)
	h.transcript.Append(prompt, result)

	return writeJSON(c, http.StatusOK, result)
}

// History returns all turns, oldest first.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	return writeJSON(c, http.StatusOK, historyResponse{Turns: h.transcript.Turns()})
}

// Health: basic liveness check.
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Index serves the chat page.
func Index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexHTML)
}
