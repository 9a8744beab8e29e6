package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/stock_dashboard/internal/db"
	"github.com/Skotchmaster/stock_dashboard/internal/logging"
)

type HealthHTTP struct {
	DB *gorm.DB
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if h.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	if err := db.Ping(ctx, h.DB); err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "status", 503, "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "database unavailable"})
	}
	return c.NoContent(http.StatusOK)
}
