package doctor

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
	return NewHandler(newTestService()), echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()
	body := `{"userId":"` + uuid.NewString() + `","specialization":"Cardiology","licenseNumber":"LIC-1001","experience":8,"consultationFee":150}`
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
	if _, ok := resp["doctor"]; !ok {
		t.Error("expected doctor in response")
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
	d := validDoctor()
	if err := h.svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_List_Envelope(t *testing.T) {
	h, e := newTestHandler()
	if err := h.svc.Create(context.Background(), validDoctor()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Doctors    []Doctor `json:"doctors"`
		Pagination struct {
			TotalItems  int `json:"totalItems"`
			CurrentPage int `json:"currentPage"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(resp.Doctors) != 1 {
		t.Errorf("expected 1 doctor, got %d", len(resp.Doctors))
	}
	if resp.Pagination.TotalItems != 1 {
		t.Errorf("expected totalItems 1, got %d", resp.Pagination.TotalItems)
	}
}

func TestHandler_Update_PreservesLicense(t *testing.T) {
	h, e := newTestHandler()
	d := validDoctor()
	if err := h.svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := `{"specialization":"Neurology","experience":10,"consultationFee":180}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := h.svc.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LicenseNumber != "LIC-1001" {
		t.Errorf("expected license preserved, got %q", got.LicenseNumber)
	}
}

func TestHandler_Delete(t *testing.T) {
	h, e := newTestHandler()
	d := validDoctor()
	if err := h.svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
