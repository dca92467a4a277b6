package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the wire shape of every error returned by the HTTP surface.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// Created sends a JSON response with HTTP 201 status code.
func Created(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusCreated).JSON(payload)
}

// OK sends a JSON response with HTTP 200 status code.
func OK(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusOK).JSON(payload)
}

// JSONResponseError sends the standard error body with the given status code.
func JSONResponseError(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Status:    status,
		Error:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Path(),
	})
}

// BadRequest sends the standard error body with HTTP 400 status code.
func BadRequest(c *fiber.Ctx, title, message string) error {
	return JSONResponseError(c, fiber.StatusBadRequest, title, message)
}

// NotFound sends the standard error body with HTTP 404 status code.
func NotFound(c *fiber.Ctx, title, message string) error {
	return JSONResponseError(c, fiber.StatusNotFound, title, message)
}

// Conflict sends the standard error body with HTTP 409 status code.
func Conflict(c *fiber.Ctx, title, message string) error {
	return JSONResponseError(c, fiber.StatusConflict, title, message)
}

// InternalServerError sends the standard error body with HTTP 500 status code.
func InternalServerError(c *fiber.Ctx, title, message string) error {
	return JSONResponseError(c, fiber.StatusInternalServerError, title, message)
}
