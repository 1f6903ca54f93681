package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/stats", h.Stats)
}

func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.svc.Stats(ctx, Caller{
		UserID: auth.UserIDFromContext(ctx),
		Role:   auth.RoleFromContext(ctx),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
