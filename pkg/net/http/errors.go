package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/openledgerhq/transfer-engine/pkg"
)

// WithError converts a typed business error into the standard error body and status code.
func WithError(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case pkg.EntityNotFoundError:
		return NotFound(c, e.Title, e.Message)
	case pkg.EntityConflictError:
		return Conflict(c, e.Title, e.Message)
	case pkg.ValidationError:
		return BadRequest(c, e.Title, e.Message)
	case pkg.UnprocessableOperationError:
		return BadRequest(c, e.Title, e.Message)
	case pkg.ValidationKnownFieldsError:
		return BadRequest(c, e.Title, e.Message)
	case pkg.ValidationUnknownFieldsError:
		return BadRequest(c, e.Title, e.Message)
	default:
		var iErr pkg.InternalServerError
		_ = errors.As(pkg.ValidateInternalError(err, ""), &iErr)

		return InternalServerError(c, iErr.Title, iErr.Message)
	}
}
