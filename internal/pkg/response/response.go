// Package response renders the uniform JSON body every endpoint returns,
// success or failure: {"status": ..., "message": ..., "data": ...}.
package response

import "github.com/gofiber/fiber/v3"

type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageError               = "request failed"
	MessageInternalServerError = "internal server error"
)

func Success(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

// write clamps out-of-range statuses to 500 and fills an empty message from
// the status class, so a handler can never emit a half-formed envelope.
func write(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		if status >= 500 {
			message = MessageInternalServerError
		} else {
			message = MessageError
		}
	}
	return c.Status(status).JSON(Envelope{Status: status, Message: message, Data: data})
}
