package web

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body of every 4xx/5xx reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return writeJSON(c, status, ErrorResponse{Message: message})
}
