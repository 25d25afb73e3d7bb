package middleware

import (
	"github.com/PranavPrasannaV/satapp/internal/domain"
	"github.com/PranavPrasannaV/satapp/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// requestLocal is the Locals key holding the validated generation request.
const requestLocal = "validated_generation_request"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateGenerationRequest parses and validates the generation request
// body, then stores the normalized request for the handler. Input errors
// surface through the ErrorHandler middleware before any upstream call.
func (vm *ValidationMiddleware) ValidateGenerationRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.GenerationRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ValidationErrors{
				domain.NewInvalidFormatError("body", "expected a JSON object"),
			}
		}

		if errs := vm.validator.ValidateGenerationRequest(&req); len(errs) > 0 {
			return errs
		}

		req.Normalize()
		c.Locals(requestLocal, req)
		return c.Next()
	}
}

// ValidatedGenerationRequest retrieves the request stored by
// ValidateGenerationRequest. The bool is false when the middleware did not
// run on this route.
func ValidatedGenerationRequest(c *fiber.Ctx) (domain.GenerationRequest, bool) {
	req, ok := c.Locals(requestLocal).(domain.GenerationRequest)
	return req, ok
}
