package appointment

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
	g := api.Group("/appointments")
	g.GET("", h.List)
	g.GET("/today/list", h.Today)
	g.GET("/stats/overview", h.Overview)
	g.GET("/:id", h.Get)

	g.POST("", h.Create, auth.RequireRole(auth.RoleAdmin, auth.RoleReception))
	g.PUT("/:id", h.Update, auth.RequireRole(auth.RoleAdmin, auth.RoleReception, auth.RoleDoctor))
	g.PUT("/:id/cancel", h.Cancel, auth.RequireRole(auth.RoleAdmin, auth.RoleReception, auth.RoleDoctor))
	g.PUT("/:id/complete", h.Complete, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Appointment created successfully",
		"appointment": a,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid appointment id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{
		"status":     c.QueryParam("status"),
		"doctor_id":  c.QueryParam("doctorId"),
		"patient_id": c.QueryParam("patientId"),
		"date":       c.QueryParam("date"),
	}
	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"appointments": items,
		"pagination":   pagination.NewMeta(pg, total),
	})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid appointment id")
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	a.ID = id

	ctx := c.Request().Context()
	if err := h.svc.Update(ctx, &a, auth.RoleFromContext(ctx), auth.UserIDFromContext(ctx)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Appointment updated successfully",
		"appointment": a,
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid appointment id")
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()
	a, err := h.svc.Cancel(ctx, id, body.Reason, auth.RoleFromContext(ctx), auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Appointment cancelled successfully",
		"appointment": a,
	})
}

func (h *Handler) Complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid appointment id")
	}

	ctx := c.Request().Context()
	a, err := h.svc.Complete(ctx, id, auth.RoleFromContext(ctx), auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Appointment completed successfully",
		"appointment": a,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid appointment id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment deleted successfully"})
}

func (h *Handler) Today(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.svc.Today(ctx, auth.RoleFromContext(ctx), auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, echo.Map{"appointments": items})
}

func (h *Handler) Overview(c echo.Context) error {
	stats, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
