package doctor

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
	g := api.Group("/doctors")
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	write := g.Group("", auth.RequireRole(auth.RoleAdmin))
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)
	write.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &d); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Doctor created successfully",
		"doctor":  d,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid doctor id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{
		"search":         c.QueryParam("search"),
		"specialization": c.QueryParam("specialization"),
	}
	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Doctor{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"doctors":    items,
		"pagination": pagination.NewMeta(pg, total),
	})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid doctor id")
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	d.ID = id
	if err := h.svc.Update(c.Request().Context(), &d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Doctor updated successfully",
		"doctor":  d,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid doctor id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Doctor deleted successfully"})
}
