package errors

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var se *SchedulerError
	if errors.As(err, &se) {
		if se.Err != nil {
			log.Printf("Scheduler error [%s]: %v", se.Code, se.Err)
		}

		var status int
		switch se.Code {
		case CodeNotFound:
			status = fiber.StatusNotFound
		case CodeInvalidState:
			status = fiber.StatusBadRequest
		case CodeConflict:
			status = fiber.StatusConflict
		case CodeAuthExpired:
			status = fiber.StatusUnauthorized
		case CodeTransientRemote, CodePermanentRemote:
			status = fiber.StatusBadGateway
		default:
			status = fiber.StatusInternalServerError
		}

		return c.Status(status).JSON(fiber.Map{
			"error":   se.Code,
			"message": se.Message,
		})
	}

	log.Printf("Unexpected error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   CodeInternal,
		"message": "Internal server error",
	})
}
