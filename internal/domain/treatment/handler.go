package treatment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/treatments")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/patient/:patientId", h.ListByPatient)
	g.GET("/doctor/:doctorId", h.ListByDoctor)

	write := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)

	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Create(c echo.Context) error {
	var t Treatment
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()
	if err := h.svc.Create(ctx, &t, auth.RoleFromContext(ctx), auth.UserIDFromContext(ctx)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Treatment created successfully",
		"treatment": t,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid treatment id")
	}
	t, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{
		"search":     c.QueryParam("search"),
		"patient_id": c.QueryParam("patientId"),
		"doctor_id":  c.QueryParam("doctorId"),
	}
	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Treatment{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"treatments": items,
		"pagination": pagination.NewMeta(pg, total),
	})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid treatment id")
	}
	var t Treatment
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	t.ID = id

	ctx := c.Request().Context()
	if err := h.svc.Update(ctx, &t, auth.RoleFromContext(ctx), auth.UserIDFromContext(ctx)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Treatment updated successfully",
		"treatment": t,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid treatment id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Treatment deleted successfully"})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient id")
	}
	items, err := h.svc.ListByPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Treatment{}
	}
	return c.JSON(http.StatusOK, echo.Map{"treatments": items})
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid doctor id")
	}
	items, err := h.svc.ListByDoctor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Treatment{}
	}
	return c.JSON(http.StatusOK, echo.Map{"treatments": items})
}
