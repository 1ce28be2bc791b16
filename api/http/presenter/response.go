package presenter

import "github.com/gofiber/fiber/v2"

// StatusResponse is the common message + status envelope the API speaks.
type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ValidationResponse carries field-level validation failures.
type ValidationResponse struct {
	Errors map[string]string `json:"errors"`
	Status string            `json:"status"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

// Success responds with the given message and status "success".
func Success(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, StatusResponse{Message: message, Status: "success"})
}

// Fail responds with the given message and status "failed".
func Fail(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, StatusResponse{Message: message, Status: "failed"})
}

// ValidationErrors responds with a 400 and per-field detail. These never
// reach the store.
func ValidationErrors(c *fiber.Ctx, errs map[string]string) error {
	return JSON(c, fiber.StatusBadRequest, ValidationResponse{Errors: errs, Status: "failed"})
}
