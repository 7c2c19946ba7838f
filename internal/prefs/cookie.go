package prefs

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ColorSchemeHint is the client hint carrying the system color scheme.
const ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

const cookieMaxAge = 365 * 24 * time.Hour

// CookieStorage reads request cookies and writes response cookies for one
// request. Values set during the request are visible to later reads.
type CookieStorage struct {
	c       *fiber.Ctx
	written map[string]string
}

func NewCookieStorage(c *fiber.Ctx) *CookieStorage {
	return &CookieStorage{c: c, written: make(map[string]string)}
}

func (s *CookieStorage) Get(key string) (string, bool) {
	if v, ok := s.written[key]; ok {
		return v, true
	}
	v := s.c.Cookies(key)
	return v, v != ""
}

func (s *CookieStorage) Set(key, value string) error {
	s.c.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	s.written[key] = value
	return nil
}

// SystemThemeFromHint reads the color scheme client hint from the request.
func SystemThemeFromHint(c *fiber.Ctx) SystemTheme {
	return func() (bool, bool) {
		hint := c.Get(ColorSchemeHint)
		if hint == "" {
			return false, false
		}
		dark, err := ParseTheme(hint)
		if err != nil {
			return false, false
		}
		return dark, true
	}
}

// FromRequest builds the per-request store.
func FromRequest(c *fiber.Ctx) *Store {
	return New(NewCookieStorage(c), SystemThemeFromHint(c))
}
