package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func params(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := params(t, "")

	if p.Page != DefaultPage {
		t.Errorf("expected default page %d, got %d", DefaultPage, p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := params(t, "?page=3&limit=50")

	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
}

func TestFromContext_MaxLimit(t *testing.T) {
	p := params(t, "?limit=10000")

	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_InvalidValues(t *testing.T) {
	p := params(t, "?page=-1&limit=abc")

	if p.Page != DefaultPage {
		t.Errorf("expected default page for invalid input, got %d", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit for invalid input, got %d", p.Limit)
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{5, 25, 100},
	}
	for _, tt := range tests {
		p := Params{Page: tt.page, Limit: tt.limit}
		if got := p.Offset(); got != tt.want {
			t.Errorf("Offset() for page=%d limit=%d: got %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(Params{Page: 2, Limit: 10}, 35)

	if m.CurrentPage != 2 {
		t.Errorf("expected currentPage 2, got %d", m.CurrentPage)
	}
	if m.TotalPages != 4 {
		t.Errorf("expected totalPages 4, got %d", m.TotalPages)
	}
	if m.TotalItems != 35 {
		t.Errorf("expected totalItems 35, got %d", m.TotalItems)
	}
	if m.ItemsPerPage != 10 {
		t.Errorf("expected itemsPerPage 10, got %d", m.ItemsPerPage)
	}
	if !m.HasNextPage {
		t.Error("expected hasNextPage true")
	}
	if !m.HasPrevPage {
		t.Error("expected hasPrevPage true")
	}
}

func TestNewMeta_SinglePage(t *testing.T) {
	m := NewMeta(Params{Page: 1, Limit: 10}, 5)

	if m.TotalPages != 1 {
		t.Errorf("expected totalPages 1, got %d", m.TotalPages)
	}
	if m.HasNextPage {
		t.Error("expected hasNextPage false")
	}
	if m.HasPrevPage {
		t.Error("expected hasPrevPage false")
	}
}

func TestNewMeta_Empty(t *testing.T) {
	m := NewMeta(Params{Page: 1, Limit: 10}, 0)

	if m.TotalPages != 1 {
		t.Errorf("expected totalPages 1 for empty result, got %d", m.TotalPages)
	}
	if m.HasNextPage {
		t.Error("expected hasNextPage false for empty result")
	}
}
