package bill

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
	g := api.Group("/bills")
	g.GET("", h.List)
	g.GET("/stats/overview", h.Overview)
	g.GET("/:id", h.Get)

	g.POST("", h.Create, auth.RequireRole(auth.RoleAdmin, auth.RoleReception))
	g.PUT("/:id/payment", h.ApplyPayment, auth.RequireRole(auth.RoleAdmin, auth.RoleReception))
	g.PUT("/:id/status", h.SetStatus, auth.RequireRole(auth.RoleAdmin))
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Create(c echo.Context) error {
	var b Bill
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &b); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Bill created successfully",
		"bill":    b,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bill id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{
		"search":     c.QueryParam("search"),
		"status":     c.QueryParam("status"),
		"patient_id": c.QueryParam("patientId"),
	}
	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Bill{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bills":      items,
		"pagination": pagination.NewMeta(pg, total),
	})
}

func (h *Handler) ApplyPayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bill id")
	}
	var body struct {
		PaidAmount    float64 `json:"paidAmount"`
		PaymentMethod string  `json:"paymentMethod"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	res, err := h.svc.ApplyPayment(c.Request().Context(), id, body.PaidAmount, body.PaymentMethod)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Payment recorded successfully",
		"newPaidAmount": res.NewPaidAmount,
		"newStatus":     res.NewStatus,
		"balance":       res.Balance,
	})
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bill id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.svc.SetStatus(c.Request().Context(), id, body.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Bill status updated successfully"})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bill id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Bill deleted successfully"})
}

func (h *Handler) Overview(c echo.Context) error {
	stats, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
