package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lajketz/site/internal/assemble"
	"github.com/lajketz/site/internal/logger"
	"github.com/lajketz/site/internal/prefs"
	"github.com/lajketz/site/internal/views"
)

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, assemble.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler answers /api requests with JSON and everything else with the
// localized not found or error page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)

	event := logger.Get().Warn()
	if code >= fiber.StatusInternalServerError {
		event = logger.Get().Error()
	}
	event.
		Err(err).
		Str("request_id", RequestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{
			"error": http.StatusText(code),
		})
	}

	page := views.PageError
	if code == fiber.StatusNotFound {
		page = views.PageNotFound
	}
	p := prefs.FromRequest(c)
	c.Status(code)
	if rerr := c.Render(page, views.Page{Lang: p.Language(), Dark: p.Dark(), Path: c.Path()}); rerr != nil {
		logger.Get().Error().Err(rerr).Str("page", page).Msg("Error page failed to render")
		return c.Status(code).SendString(http.StatusText(code))
	}
	return nil
}
