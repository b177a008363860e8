package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arman-d/DermaCareBack/internal/models"
	"github.com/arman-d/DermaCareBack/internal/services"
)

type orderApplicationService interface {
	BookOrder(ctx context.Context, input services.BookOrderInput) (*models.OrderDetail, error)
	GetOrder(ctx context.Context, orderID int64) (*models.OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID int64, requestedStatus string) (*models.Order, error)
}

type OrderHandler struct {
	service orderApplicationService
}

func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type bookOrderRequest struct {
	CustomerID   int64  `json:"customer_id"`
	ServiceID    int64  `json:"service_id"`
	DoctorID     *int64 `json:"doctor_id"`
	BookingDate  string `json:"booking_date"`
	BookingTime  string `json:"booking_time"`
	SessionCount int    `json:"session_count"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) BookOrder(c *fiber.Ctx) error {
	var req bookOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	bookingDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.BookingDate))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "booking_date must be YYYY-MM-DD"})
	}
	if req.SessionCount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_count must be greater than 0"})
	}

	detail, err := h.service.BookOrder(c.Context(), services.BookOrderInput{
		CustomerID:   req.CustomerID,
		ServiceID:    req.ServiceID,
		DoctorID:     req.DoctorID,
		BookingDate:  bookingDate,
		BookingTime:  strings.TrimSpace(req.BookingTime),
		SessionCount: req.SessionCount,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": detail})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	detail, err := h.service.GetOrder(c.Context(), orderID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"order": detail})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	order, err := h.service.UpdateStatus(c.Context(), orderID, req.Status)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"order": order})
}
