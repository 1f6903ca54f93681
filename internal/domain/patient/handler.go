package patient

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
)

// SubResources lists records owned by other domains that hang off a patient.
// Each function is wired from the owning service at startup.
type SubResources struct {
	Appointments func(ctx context.Context, patientID uuid.UUID) (interface{}, error)
	Treatments   func(ctx context.Context, patientID uuid.UUID) (interface{}, error)
	LabTests     func(ctx context.Context, patientID uuid.UUID) (interface{}, error)
	Bills        func(ctx context.Context, patientID uuid.UUID) (interface{}, error)
}

type Handler struct {
	svc *Service
	sub SubResources
}

func NewHandler(svc *Service, sub SubResources) *Handler {
	return &Handler{svc: svc, sub: sub}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/patients")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/appointments", h.ListAppointments)
	g.GET("/:id/treatments", h.ListTreatments)
	g.GET("/:id/lab-tests", h.ListLabTests)
	g.GET("/:id/bills", h.ListBills)

	write := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleReception))
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)

	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Patient created successfully",
		"patient": p,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{
		"search":      c.QueryParam("search"),
		"gender":      c.QueryParam("gender"),
		"blood_group": c.QueryParam("bloodGroup"),
	}
	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Patient{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"patients":   items,
		"pagination": pagination.NewMeta(pg, total),
	})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Patient updated successfully",
		"patient": p,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Patient deleted successfully"})
}

func (h *Handler) listSub(c echo.Context, key string, list func(ctx context.Context, patientID uuid.UUID) (interface{}, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient id")
	}
	if _, err := h.svc.Get(c.Request().Context(), id); err != nil {
		return err
	}
	items, err := list(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{key: items})
}

func (h *Handler) ListAppointments(c echo.Context) error {
	return h.listSub(c, "appointments", h.sub.Appointments)
}

func (h *Handler) ListTreatments(c echo.Context) error {
	return h.listSub(c, "treatments", h.sub.Treatments)
}

func (h *Handler) ListLabTests(c echo.Context) error {
	return h.listSub(c, "labTests", h.sub.LabTests)
}

func (h *Handler) ListBills(c echo.Context) error {
	return h.listSub(c, "bills", h.sub.Bills)
}
