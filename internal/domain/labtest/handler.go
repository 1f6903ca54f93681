package labtest

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
	g := api.Group("/lab-tests")
	g.GET("", h.List)
	g.GET("/stats/overview", h.Overview)
	g.GET("/:id", h.Get)

	write := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleLab))
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)

	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Create(c echo.Context) error {
	var lt LabTest
	if err := c.Bind(&lt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &lt); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Lab test created successfully",
		"labTest": lt,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid lab test id")
	}
	lt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lt)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{
		"search":     c.QueryParam("search"),
		"status":     c.QueryParam("status"),
		"patient_id": c.QueryParam("patientId"),
		"doctor_id":  c.QueryParam("doctorId"),
	}
	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*LabTest{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"labTests":   items,
		"pagination": pagination.NewMeta(pg, total),
	})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid lab test id")
	}
	var lt LabTest
	if err := c.Bind(&lt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	lt.ID = id
	if err := h.svc.Update(c.Request().Context(), &lt); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Lab test updated successfully",
		"labTest": lt,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid lab test id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Lab test deleted successfully"})
}

func (h *Handler) Overview(c echo.Context) error {
	stats, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
