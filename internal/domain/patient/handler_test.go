package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := newTestService()
	sub := SubResources{
		Appointments: func(_ context.Context, _ uuid.UUID) (interface{}, error) { return []string{}, nil },
		Treatments:   func(_ context.Context, _ uuid.UUID) (interface{}, error) { return []string{}, nil },
		LabTests:     func(_ context.Context, _ uuid.UUID) (interface{}, error) { return []string{}, nil },
		Bills:        func(_ context.Context, _ uuid.UUID) (interface{}, error) { return []string{}, nil },
	}
	return NewHandler(svc, sub), echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()
	body := `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"555-0100","gender":"female"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if _, ok := resp["patient"]; !ok {
		t.Error("expected patient in response")
	}
}

func TestHandler_Create_Invalid(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestHandler_Get_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_Get(t *testing.T) {
	h, e := newTestHandler()
	p := validPatient()
	if err := h.svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_List_Envelope(t *testing.T) {
	h, e := newTestHandler()
	if err := h.svc.Create(context.Background(), validPatient()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Patients   []Patient `json:"patients"`
		Pagination struct {
			CurrentPage  int  `json:"currentPage"`
			TotalPages   int  `json:"totalPages"`
			TotalItems   int  `json:"totalItems"`
			ItemsPerPage int  `json:"itemsPerPage"`
			HasNextPage  bool `json:"hasNextPage"`
			HasPrevPage  bool `json:"hasPrevPage"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(resp.Patients) != 1 {
		t.Errorf("expected 1 patient, got %d", len(resp.Patients))
	}
	if resp.Pagination.TotalItems != 1 {
		t.Errorf("expected totalItems 1, got %d", resp.Pagination.TotalItems)
	}
	if resp.Pagination.CurrentPage != 1 {
		t.Errorf("expected currentPage 1, got %d", resp.Pagination.CurrentPage)
	}
}

func TestHandler_Delete(t *testing.T) {
	h, e := newTestHandler()
	p := validPatient()
	if err := h.svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_SubResource_PatientNotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.ListAppointments(c); err == nil {
		t.Error("expected error for unknown patient")
	}
}

func TestHandler_SubResource_ReturnsKey(t *testing.T) {
	h, e := newTestHandler()
	p := validPatient()
	if err := h.svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.ListBills(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if _, ok := resp["bills"]; !ok {
		t.Error("expected bills key in response")
	}
}
