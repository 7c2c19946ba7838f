package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lajketz/site/internal/assemble"
	"github.com/lajketz/site/internal/prefs"
	"github.com/lajketz/site/internal/views"
)

func ok(c *fiber.Ctx) error { return c.SendString("ok") }

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestSecretKey(t *testing.T) {
	app := fiber.New()
	app.Post("/api/revalidate", SecretKey("s3cret"), ok)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "missing", want: fiber.StatusUnauthorized},
		{name: "wrong key", header: "X-API-Key", value: "nope", want: fiber.StatusForbidden},
		{name: "api key", header: "X-API-Key", value: "s3cret", want: fiber.StatusOK},
		{name: "bearer", header: fiber.HeaderAuthorization, value: "Bearer s3cret", want: fiber.StatusOK},
		{name: "lowercase bearer", header: fiber.HeaderAuthorization, value: "bearer s3cret", want: fiber.StatusOK},
		{name: "wrong bearer", header: fiber.HeaderAuthorization, value: "Bearer s3cre", want: fiber.StatusForbidden},
		{name: "basic scheme", header: fiber.HeaderAuthorization, value: "Basic s3cret", want: fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/api/revalidate", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, _ := do(t, app, req)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSecretKey_OpenWithoutSecret(t *testing.T) {
	app := fiber.New()
	app.Post("/api/revalidate", SecretKey(""), ok)

	resp, _ := do(t, app, httptest.NewRequest(fiber.MethodPost, "/api/revalidate", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

type pathsBody struct {
	Paths []string `json:"paths" validate:"omitempty,dive,oneof=/ /blog"`
}

func TestValidateBody(t *testing.T) {
	app := fiber.New()
	app.Post("/", ValidateBody[pathsBody](), func(c *fiber.Ctx) error {
		return c.JSON(Body[pathsBody](c))
	})

	post := func(body string) *http.Request {
		req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return req
	}

	resp, body := do(t, app, post(""))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"paths":null}`, body)

	resp, body = do(t, app, post(`{"paths":["/blog"]}`))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"paths":["/blog"]}`, body)

	resp, body = do(t, app, post(`{"paths":["/blog/secret"]}`))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "oneof")

	resp, _ = do(t, app, post(`{"paths":`))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("pico-de-perdida"))
	assert.True(t, IsSlug("d1f0c3a2-analysis"))
	assert.True(t, IsSlug(strings.Repeat("a", MaxSlugLength)))
	assert.False(t, IsSlug(""))
	assert.False(t, IsSlug(strings.Repeat("a", MaxSlugLength+1)))
	assert.False(t, IsSlug("a/b"))
	assert.False(t, IsSlug("tab\there"))
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	r, err := views.New(views.Site{Name: "Laj Ketz", URL: "https://lajketz.org"})
	require.NoError(t, err)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler, Views: r})
	app.Use(RequestLogger())
	return app
}

func TestErrorHandler_JSONForAPI(t *testing.T) {
	app := newApp(t)
	app.Get("/api/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/api/boom", nil))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "Internal Server Error", payload["error"])
}

func TestErrorHandler_LocalizedNotFoundPage(t *testing.T) {
	app := newApp(t)
	app.Get("/blog/:slug", ValidSlug("slug"), func(c *fiber.Ctx) error {
		return assemble.ErrNotFound
	})

	req := httptest.NewRequest(fiber.MethodGet, "/blog/missing", nil)
	req.Header.Set("Cookie", prefs.LangKey+"=en")
	resp, body := do(t, app, req)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, "Page not found")
}

func TestErrorHandler_ErrorPage(t *testing.T) {
	app := newApp(t)
	app.Get("/", func(c *fiber.Ctx) error { return errors.New("template exploded") })

	resp, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/", nil))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Algo salió mal")
}

func TestRequestLogger_RequestID(t *testing.T) {
	app := newApp(t)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestID(c)) })

	resp, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/", nil))
	assert.Len(t, body, 36)
	assert.Equal(t, body, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "edge-123")
	resp, body = do(t, app, req)
	assert.Equal(t, "edge-123", body)
	assert.Equal(t, "edge-123", resp.Header.Get(RequestIDHeader))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, statusFor(fiber.ErrNotFound))
	assert.Equal(t, fiber.StatusNotFound, statusFor(assemble.ErrNotFound))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(fiber.NewError(fiber.StatusBadRequest, "bad")))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(errors.New("x")))
}
