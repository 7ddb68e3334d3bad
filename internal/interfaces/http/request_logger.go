package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Billing-api/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, status, latencia y X-Request-ID.
// Los 5xx se registran a nivel error junto con el error interno guardado en LocalError.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = logger.OrNop(log).Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// deja que el ErrorHandler de fiber fije el status antes de registrar
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if err, ok := c.Locals(LocalError).(error); ok {
			ev = ev.Err(err)
		} else if chainErr != nil {
			ev = ev.Err(chainErr)
		}
		if reqID := c.GetRespHeader(fiber.HeaderXRequestID); reqID != "" {
			ev = ev.Str("request_id", reqID)
		}
		if userID := GetUserID(c); userID != "" {
			ev = ev.Str("user_id", userID)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}
