package middleware

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/lajketz/site/internal/content"
)

const MaxSlugLength = content.MaxSlugLength

var slugTag = "required,max=" + strconv.Itoa(MaxSlugLength) + ",printascii,excludesall=/"

// BodyKey is the fiber.Locals key holding a validated request body.
const BodyKey = "validated"

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the request body against the provided struct
func (v *Validator) Validate(s any) error {
	return v.validate.Struct(s)
}

// Var validates a single value against a tag.
func (v *Validator) Var(field any, tag string) error {
	return v.validate.Var(field, tag)
}

var shared = NewValidator()

// ValidateBody parses the JSON body into a fresh T per request, validates it
// and stores it under BodyKey. An empty body yields the zero T.
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(body); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid request body",
					"msg":   err.Error(),
				})
			}
		}

		if err := shared.Validate(body); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fields,
			})
		}

		c.Locals(BodyKey, body)
		return c.Next()
	}
}

// Body returns the value stored by ValidateBody.
func Body[T any](c *fiber.Ctx) *T {
	body, _ := c.Locals(BodyKey).(*T)
	if body == nil {
		return new(T)
	}
	return body
}

// ValidSlug rejects malformed slug parameters as not found.
func ValidSlug(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsSlug(c.Params(param)) {
			return fiber.ErrNotFound
		}
		return c.Next()
	}
}

// IsSlug reports whether s can name a document: 1 to MaxSlugLength
// printable characters without a slash.
func IsSlug(s string) bool {
	return shared.Var(s, slugTag) == nil
}
