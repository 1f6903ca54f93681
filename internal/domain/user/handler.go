package user

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

// RegisterAuthRoutes mounts the open auth endpoints. authed carries the
// bearer middleware for the self-service endpoints.
func (h *Handler) RegisterAuthRoutes(api *echo.Group, authed echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)

	me := g.Group("", authed)
	me.GET("/me", h.Me)
	me.PUT("/profile", h.UpdateProfile)
	me.PUT("/change-password", h.ChangePassword)
	me.POST("/logout", h.Logout)
}

// RegisterUserRoutes mounts the admin user-management endpoints.
func (h *Handler) RegisterUserRoutes(api *echo.Group) {
	g := api.Group("/users", auth.RequireRole(auth.RoleAdmin))
	g.GET("", h.List)
	g.GET("/stats/overview", h.StatsOverview)
	g.GET("/role/:role", h.ListByRole)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PUT("/:id/password", h.SetPassword)
	g.PUT("/:id/toggle-status", h.ToggleStatus)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user":    u,
	})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	token, u, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
		"user":    u,
	})
}

func (h *Handler) Me(c echo.Context) error {
	id := auth.UserIDFromContext(c.Request().Context())
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var in struct {
		FirstName string  `json:"firstName"`
		LastName  string  `json:"lastName"`
		Phone     *string `json:"phone"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	id := auth.UserIDFromContext(c.Request().Context())
	u, err := h.svc.UpdateProfile(c.Request().Context(), id, in.FirstName, in.LastName, in.Phone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"user":    u,
	})
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	id := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.ChangePassword(c.Request().Context(), id, in.CurrentPassword, in.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// Logout is stateless: the client discards its token.
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{
		"search":    c.QueryParam("search"),
		"role":      c.QueryParam("role"),
		"is_active": c.QueryParam("isActive"),
	}
	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*User{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":      items,
		"pagination": pagination.NewMeta(pg, total),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	var u User
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	u.ID = id
	updated, err := h.svc.AdminUpdate(c.Request().Context(), &u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated successfully",
		"user":    updated,
	})
}

func (h *Handler) SetPassword(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	var in struct {
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.svc.SetPassword(c.Request().Context(), id, in.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}

func (h *Handler) ToggleStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	u, err := h.svc.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	msg := "User deactivated successfully"
	if u.IsActive {
		msg = "User activated successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": msg,
		"user":    u,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), id, callerID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

func (h *Handler) ListByRole(c echo.Context) error {
	items, err := h.svc.ByRole(c.Request().Context(), c.Param("role"))
	if err != nil {
		return err
	}
	if items == nil {
		items = []*User{}
	}
	return c.JSON(http.StatusOK, echo.Map{"users": items})
}

func (h *Handler) StatsOverview(c echo.Context) error {
	stats, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
