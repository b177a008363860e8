package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arman-d/DermaCareBack/internal/models"
	"github.com/arman-d/DermaCareBack/internal/services"
)

type sessionApplicationService interface {
	ListSessions(ctx context.Context, orderID int64) ([]models.OrderSession, error)
	BulkCreateSessions(ctx context.Context, orderID int64, drafts []services.SessionDraft) ([]models.OrderSession, error)
	PatchSession(ctx context.Context, orderID, sessionID int64, input services.SessionPatchInput) (*models.OrderSession, error)
}

type SessionHandler struct {
	service sessionApplicationService
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type bulkCreateSessionsRequest struct {
	Sessions []services.SessionDraft `json:"sessions"`
}

// patchSessionRequest holds the field whitelist. Anything else in the body
// is dropped at decode time and never reaches the store.
type patchSessionRequest struct {
	SessionID     int64   `json:"sessionId"`
	ScheduledDate *string `json:"scheduled_date"`
	ScheduledTime *string `json:"scheduled_time"`
	Status        *string `json:"status"`
	AttendedDate  *string `json:"attended_date"`
	Notes         *string `json:"notes"`
	ExpiresAt     *string `json:"expires_at"`
}

func parseOrderID(c *fiber.Ctx) (int64, error) {
	orderID, err := strconv.ParseInt(c.Params("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		return 0, services.ErrInvalidInput
	}
	return orderID, nil
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	sessions, err := h.service.ListSessions(c.Context(), orderID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) BulkCreateSessions(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	var req bulkCreateSessionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Sessions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sessions must not be empty"})
	}

	created, err := h.service.BulkCreateSessions(c.Context(), orderID, req.Sessions)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sessions": created})
}

func (h *SessionHandler) PatchSession(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	var req patchSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sessionId is required"})
	}
	if req.ScheduledDate == nil && req.ScheduledTime == nil && req.Status == nil &&
		req.AttendedDate == nil && req.Notes == nil && req.ExpiresAt == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No updatable field provided"})
	}

	role, _ := c.Locals("role").(string)

	session, err := h.service.PatchSession(c.Context(), orderID, req.SessionID, services.SessionPatchInput{
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Status:        req.Status,
		AttendedDate:  req.AttendedDate,
		Notes:         req.Notes,
		ExpiresAt:     req.ExpiresAt,
		AdminOverride: role == "admin",
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}
