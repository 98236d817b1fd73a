package shared

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// JSON is the frozen codec used everywhere a value crosses a byte boundary:
// the durable store, the data files and the HTTP wire.
var JSON = sonic.ConfigStd

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ResponseJSON(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func OK(c *fiber.Ctx, message string, data interface{}) error {
	return ResponseJSON(c, fiber.StatusOK, message, data)
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return ResponseJSON(c, fiber.StatusCreated, message, data)
}
