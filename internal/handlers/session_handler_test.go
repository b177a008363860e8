package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/arman-d/DermaCareBack/internal/models"
	"github.com/arman-d/DermaCareBack/internal/services"
)

type stubSessionService struct {
	listResult   []models.OrderSession
	listErr      error
	createResult []models.OrderSession
	createErr    error
	patchResult  *models.OrderSession
	patchErr     error

	lastOrderID   int64
	lastSessionID int64
	lastDrafts    []services.SessionDraft
	lastPatch     services.SessionPatchInput
}

func (s *stubSessionService) ListSessions(_ context.Context, orderID int64) ([]models.OrderSession, error) {
	s.lastOrderID = orderID
	return s.listResult, s.listErr
}

func (s *stubSessionService) BulkCreateSessions(_ context.Context, orderID int64, drafts []services.SessionDraft) ([]models.OrderSession, error) {
	s.lastOrderID = orderID
	s.lastDrafts = drafts
	return s.createResult, s.createErr
}

func (s *stubSessionService) PatchSession(_ context.Context, orderID, sessionID int64, input services.SessionPatchInput) (*models.OrderSession, error) {
	s.lastOrderID = orderID
	s.lastSessionID = sessionID
	s.lastPatch = input
	return s.patchResult, s.patchErr
}

func newSessionApp(service sessionApplicationService, role string) *fiber.App {
	handler := &SessionHandler{service: service}
	app := fiber.New()
	if role != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("role", role)
			return c.Next()
		})
	}
	app.Get("/api/v1/orders/:orderId/sessions", handler.ListSessions)
	app.Post("/api/v1/orders/:orderId/sessions", handler.BulkCreateSessions)
	app.Patch("/api/v1/orders/:orderId/sessions", handler.PatchSession)
	return app
}

func TestListSessionsReturnsOrderedList(t *testing.T) {
	service := &stubSessionService{
		listResult: []models.OrderSession{
			{ID: 1, OrderID: 4, SessionNumber: 1},
			{ID: 2, OrderID: 4, SessionNumber: 2},
		},
	}
	app := newSessionApp(service, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/4/sessions", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastOrderID != 4 {
		t.Errorf("expected order 4, got %d", service.lastOrderID)
	}
}

func TestBulkCreateSessionsRejectsEmptyList(t *testing.T) {
	app := newSessionApp(&stubSessionService{}, "")

	for _, body := range []string{`{}`, `{"sessions": []}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/4/sessions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestBulkCreateSessionsPassesDrafts(t *testing.T) {
	service := &stubSessionService{createResult: []models.OrderSession{{ID: 9}}}
	app := newSessionApp(service, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/4/sessions", strings.NewReader(`{
		"sessions": [
			{"scheduled_date": "2026-09-10", "scheduled_time": "10:00"},
			{"scheduled_date": "2026-09-17", "scheduled_time": "10:00", "notes": "follow-up"}
		]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if len(service.lastDrafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(service.lastDrafts))
	}
	if service.lastDrafts[1].Notes == nil || *service.lastDrafts[1].Notes != "follow-up" {
		t.Error("expected notes to pass through")
	}
}

func TestPatchSessionRequiresSessionID(t *testing.T) {
	app := newSessionApp(&stubSessionService{}, "")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/4/sessions", strings.NewReader(`{
		"status": "completed"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPatchSessionRequiresRecognizedField(t *testing.T) {
	app := newSessionApp(&stubSessionService{}, "")

	// Only unknown fields: nothing from the whitelist survives decoding.
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/4/sessions", strings.NewReader(`{
		"sessionId": 12,
		"foo": "bar",
		"color": "red"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPatchSessionDropsUnknownFields(t *testing.T) {
	service := &stubSessionService{
		patchResult: &models.OrderSession{ID: 12, OrderID: 4, Status: models.SessionStatusCompleted},
	}
	app := newSessionApp(service, "")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/4/sessions", strings.NewReader(`{
		"sessionId": 12,
		"status": "completed",
		"foo": "bar"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastSessionID != 12 || service.lastOrderID != 4 {
		t.Errorf("expected order 4 session 12, got order %d session %d",
			service.lastOrderID, service.lastSessionID)
	}
	// Exactly one whitelisted field reaches the service.
	patch := service.lastPatch
	if patch.Status == nil || *patch.Status != "completed" {
		t.Error("expected status to pass through")
	}
	if patch.ScheduledDate != nil || patch.ScheduledTime != nil || patch.AttendedDate != nil ||
		patch.Notes != nil || patch.ExpiresAt != nil {
		t.Error("expected all other fields to stay unset")
	}
}

func TestPatchSessionAdminOverrideComesFromRole(t *testing.T) {
	service := &stubSessionService{
		patchResult: &models.OrderSession{ID: 12, OrderID: 4},
	}
	app := newSessionApp(service, "admin")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/4/sessions", strings.NewReader(`{
		"sessionId": 12,
		"status": "scheduled"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if !service.lastPatch.AdminOverride {
		t.Error("expected admin role to set the override flag")
	}
}

func TestPatchSessionNotFound(t *testing.T) {
	app := newSessionApp(&stubSessionService{patchErr: pgx.ErrNoRows}, "")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/4/sessions", strings.NewReader(`{
		"sessionId": 999,
		"status": "completed"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPatchSessionTerminalStateConflict(t *testing.T) {
	app := newSessionApp(&stubSessionService{patchErr: services.ErrInvalidStateTransition}, "")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/4/sessions", strings.NewReader(`{
		"sessionId": 12,
		"scheduled_date": "2026-09-20"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestListSessionsResponseShape(t *testing.T) {
	service := &stubSessionService{
		listResult: []models.OrderSession{{ID: 1, OrderID: 4, SessionNumber: 1, Status: "scheduled"}},
	}
	app := newSessionApp(service, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/4/sessions", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Sessions []models.OrderSession `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Sessions) != 1 || body.Sessions[0].SessionNumber != 1 {
		t.Errorf("unexpected body %+v", body)
	}
}
