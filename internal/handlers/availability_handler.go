package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type availabilityApplicationService interface {
	AvailableSlots(ctx context.Context, date time.Time, doctorID, serviceID int64) ([]string, error)
}

type AvailabilityHandler struct {
	service availabilityApplicationService
}

func NewAvailabilityHandler(service availabilityApplicationService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// GetAvailability answers GET /availability?date=YYYY-MM-DD&doctorId=&serviceId=.
func (h *AvailabilityHandler) GetAvailability(c *fiber.Ctx) error {
	dateParam := strings.TrimSpace(c.Query("date"))
	doctorParam := strings.TrimSpace(c.Query("doctorId"))
	serviceParam := strings.TrimSpace(c.Query("serviceId"))

	if dateParam == "" || doctorParam == "" || serviceParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date, doctorId and serviceId are required",
		})
	}

	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}
	doctorID, err := strconv.ParseInt(doctorParam, 10, 64)
	if err != nil || doctorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid doctorId"})
	}
	serviceID, err := strconv.ParseInt(serviceParam, 10, 64)
	if err != nil || serviceID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid serviceId"})
	}

	slots, err := h.service.AvailableSlots(c.Context(), date, doctorID, serviceID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"slots": slots})
}
