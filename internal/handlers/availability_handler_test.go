package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arman-d/DermaCareBack/internal/services"
)

type stubAvailabilityService struct {
	slots         []string
	err           error
	lastDate      time.Time
	lastDoctorID  int64
	lastServiceID int64
}

func (s *stubAvailabilityService) AvailableSlots(_ context.Context, date time.Time, doctorID, serviceID int64) ([]string, error) {
	s.lastDate = date
	s.lastDoctorID = doctorID
	s.lastServiceID = serviceID
	return s.slots, s.err
}

func newAvailabilityApp(service availabilityApplicationService) *fiber.App {
	handler := &AvailabilityHandler{service: service}
	app := fiber.New()
	app.Get("/api/v1/availability", handler.GetAvailability)
	return app
}

func TestGetAvailabilityReturnsSlots(t *testing.T) {
	service := &stubAvailabilityService{slots: []string{"9:00 am", "11:00 am"}}
	app := newAvailabilityApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2026-09-14&doctorId=7&serviceId=3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Slots []string `json:"slots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Slots) != 2 || body.Slots[0] != "9:00 am" {
		t.Errorf("unexpected slots %v", body.Slots)
	}
	if service.lastDoctorID != 7 || service.lastServiceID != 3 {
		t.Errorf("expected doctor 7 service 3, got %d and %d", service.lastDoctorID, service.lastServiceID)
	}
	if service.lastDate.Format("2006-01-02") != "2026-09-14" {
		t.Errorf("unexpected date %v", service.lastDate)
	}
}

func TestGetAvailabilityMissingParams(t *testing.T) {
	app := newAvailabilityApp(&stubAvailabilityService{})

	for _, target := range []string{
		"/api/v1/availability",
		"/api/v1/availability?date=2026-09-14",
		"/api/v1/availability?date=2026-09-14&doctorId=7",
		"/api/v1/availability?doctorId=7&serviceId=3",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, resp.StatusCode)
		}
	}
}

func TestGetAvailabilityUnknownService(t *testing.T) {
	app := newAvailabilityApp(&stubAvailabilityService{err: services.ErrServiceNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2026-09-14&doctorId=7&serviceId=99", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetAvailabilityStoreFailure(t *testing.T) {
	app := newAvailabilityApp(&stubAvailabilityService{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2026-09-14&doctorId=7&serviceId=3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
