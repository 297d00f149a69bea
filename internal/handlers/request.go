package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the fiber Locals key the requestid middleware stores ids under.
const RequestIDKey = "requestid"

func requestLogger(c *fiber.Ctx, log logrus.FieldLogger) logrus.FieldLogger {
	if id, ok := c.Locals(RequestIDKey).(string); ok && id != "" {
		return log.WithField("request_id", id)
	}
	return log
}
