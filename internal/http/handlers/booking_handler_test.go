// README: Handler tests for booking endpoints against a temp JSON file.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taxibook/internal/http/handlers"
	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/pricing"
)

func buildBookingRouter(t *testing.T, strict bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := booking.NewStore(filepath.Join(t.TempDir(), "bookings.json"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	fares, err := pricing.NewService(pricing.DefaultSchedule())
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	now := time.Now()
	svc := booking.NewService(store, fares, nil, booking.Options{
		StrictStatus: strict,
		Location:     time.UTC,
		Now:          func() time.Time { now = now.Add(time.Millisecond); return now },
	})

	h := handlers.NewBookingHandler(svc)
	r := gin.New()
	r.POST("/api/bookings", h.Create)
	r.GET("/api/bookings", h.List)
	r.GET("/api/bookings/stats", h.Stats)
	r.GET("/api/bookings/:id", h.Get)
	r.PATCH("/api/bookings/:id", h.Update)
	r.DELETE("/api/bookings/:id", h.Delete)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() map[string]any {
	return map[string]any{
		"name":          "Asha Rao",
		"phone":         "+91 98450 00000",
		"email":         "asha@example.com",
		"service":       "tour",
		"hours":         "14",
		"location":      "MG Road, Bengaluru",
		"date":          "2026-10-20",
		"time":          "07:30",
		"estimatedFare": "₹1900",
	}
}

type createResp struct {
	Message string          `json:"message"`
	Booking booking.Booking `json:"booking"`
}

func createBooking(t *testing.T, r *gin.Engine, body map[string]any) booking.Booking {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/bookings", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp createResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Booking saved successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	return resp.Booking
}

func TestCreate_AssignsServerFields(t *testing.T) {
	r := buildBookingRouter(t, false)
	b := createBooking(t, r, validBody())

	if !strings.HasPrefix(b.ID, "BK") {
		t.Errorf("id = %q", b.ID)
	}
	if b.Status != booking.StatusPending {
		t.Errorf("status = %q", b.Status)
	}
	if b.ServiceType != "tour" {
		t.Errorf("serviceType from legacy field = %q", b.ServiceType)
	}
	if b.EstimatedFare != "₹1900" {
		t.Errorf("client fare should be kept, got %q", b.EstimatedFare)
	}
}

func TestCreate_ValidationError(t *testing.T) {
	r := buildBookingRouter(t, false)
	body := validBody()
	delete(body, "phone")
	body["location"] = "   "

	w := doRequest(r, http.MethodPost, "/api/bookings", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if _, ok := resp.Fields["phone"]; !ok {
		t.Errorf("fields = %v", resp.Fields)
	}
	if _, ok := resp.Fields["location"]; !ok {
		t.Errorf("fields = %v", resp.Fields)
	}

	list := doRequest(r, http.MethodGet, "/api/bookings", nil)
	if strings.TrimSpace(list.Body.String()) != "[]" {
		t.Errorf("rejected booking was stored: %s", list.Body.String())
	}
}

func TestCreate_InvalidJSON(t *testing.T) {
	r := buildBookingRouter(t, false)
	if w := doRequest(r, http.MethodPost, "/api/bookings", "{not json"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestListAndGet(t *testing.T) {
	r := buildBookingRouter(t, false)
	a := createBooking(t, r, validBody())
	b := createBooking(t, r, validBody())

	w := doRequest(r, http.MethodGet, "/api/bookings", nil)
	var list []booking.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("list order = %v", list)
	}

	if w := doRequest(r, http.MethodGet, "/api/bookings/"+b.ID, nil); w.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/bookings/BK0", nil); w.Code != http.StatusNotFound {
		t.Errorf("get missing: expected 404, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/bookings/bad%20id", nil); w.Code != http.StatusBadRequest {
		t.Errorf("get bad id: expected 400, got %d", w.Code)
	}
}

func TestUpdate(t *testing.T) {
	r := buildBookingRouter(t, false)
	b := createBooking(t, r, validBody())

	w := doRequest(r, http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{
		"status": "confirmed",
		"id":     "BK1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp createResp
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "Booking updated successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Booking.ID != b.ID || resp.Booking.Status != booking.StatusConfirmed {
		t.Errorf("updated = %+v", resp.Booking)
	}
	if !resp.Booking.Timestamp.Equal(b.Timestamp) {
		t.Errorf("timestamp changed: %v -> %v", b.Timestamp, resp.Booking.Timestamp)
	}

	if w := doRequest(r, http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{"status": "teleported"}); w.Code != http.StatusBadRequest {
		t.Errorf("unknown status: expected 400, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodPatch, "/api/bookings/BK0", map[string]any{"status": "confirmed"}); w.Code != http.StatusNotFound {
		t.Errorf("missing: expected 404, got %d", w.Code)
	}
}

func TestUpdate_StrictTransitionConflict(t *testing.T) {
	r := buildBookingRouter(t, true)
	b := createBooking(t, r, validBody())

	w := doRequest(r, http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{"status": "completed"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestDelete(t *testing.T) {
	r := buildBookingRouter(t, false)
	b := createBooking(t, r, validBody())

	w := doRequest(r, http.MethodDelete, "/api/bookings/"+b.ID, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Booking deleted successfully") {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	if w := doRequest(r, http.MethodDelete, "/api/bookings/"+b.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	r := buildBookingRouter(t, false)
	createBooking(t, r, validBody())
	second := validBody()
	second["estimatedFare"] = "₹1,250.50"
	b := createBooking(t, r, second)
	third := validBody()
	third["estimatedFare"] = "call us"
	createBooking(t, r, third)
	doRequest(r, http.MethodPatch, "/api/bookings/"+b.ID, map[string]any{"status": "cancelled"})

	w := doRequest(r, http.MethodGet, "/api/bookings/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var st map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st["total"] != 3.0 || st["pending"] != 2.0 || st["cancelled"] != 1.0 || st["todayBookings"] != 3.0 {
		t.Errorf("stats = %v", st)
	}
	if st["todayRevenue"] != 3150.5 || st["todayRevenueDisplay"] != "₹3150.50" {
		t.Errorf("revenue = %v / %v", st["todayRevenue"], st["todayRevenueDisplay"])
	}
}
