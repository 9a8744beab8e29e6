package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/stock_dashboard/internal/catalog"
	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/notify"
	"github.com/Skotchmaster/stock_dashboard/internal/transport"
	"github.com/Skotchmaster/stock_dashboard/internal/util"
)

func (h *ProductHTTP) APIList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.list_products")

	filter := catalog.Filter{
		SearchTerm: c.QueryParam("q"),
		Status:     catalog.ParseStatusFilter(c.QueryParam("status")),
	}

	var n notify.Collector
	view := catalog.Derive(h.Mutator.Fetch(ctx, &n), filter)
	resp := transport.ProductListResponse{Items: view.Items, Stats: view.Stats, Empty: string(view.Empty)}

	if msg := n.Last(notify.KindError); msg != "" {
		l.Error("list_products_failed", "status", 502, "reason", msg)
		resp.Message = msg
		return c.JSON(http.StatusBadGateway, resp)
	}

	if c.QueryParam("page") != "" || c.QueryParam("size") != "" {
		page, offset, limit := util.Calculate(
			util.ParseIntDefault(c.QueryParam("page"), 1),
			util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
		)
		resp.Items = util.Window(view.Items, offset, limit)
		resp.Meta = transport.NewPageMeta(page, limit, len(view.Items))
	}

	l.Info("list_products_success", "count", len(resp.Items))
	return c.JSON(http.StatusOK, resp)
}

func (h *ProductHTTP) APICreate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.create_product")

	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var n notify.Collector
	if err := h.Mutator.Create(ctx, &n, in); err != nil {
		return mutationResponse(c, l, err, &n)
	}

	l.Info("create_product_success")
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: n.Last(notify.KindSuccess)})
}

func (h *ProductHTTP) APIUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.update_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var n notify.Collector
	if err := h.Mutator.Update(ctx, &n, id, in); err != nil {
		return mutationResponse(c, l, err, &n)
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: n.Last(notify.KindSuccess)})
}

func (h *ProductHTTP) APIDelete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.delete_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var n notify.Collector
	if err := h.Mutator.Delete(ctx, &n, id, c.QueryParam("confirm") == "true"); err != nil {
		return mutationResponse(c, l, err, &n)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: n.Last(notify.KindSuccess)})
}

func mutationResponse(c echo.Context, l *slog.Logger, err error, n *notify.Collector) error {
	switch {
	case errors.Is(err, catalog.ErrNotConfirmed):
		l.Warn("product_mutation_failed", "status", 409, "reason", "not confirmed")
		return echo.NewHTTPError(http.StatusConflict, "delete not confirmed")
	case errors.Is(err, gorm.ErrRecordNotFound):
		l.Warn("product_mutation_failed", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, n.Last(notify.KindError))
	case errors.Is(err, catalog.ErrMutationFailed):
		l.Warn("product_mutation_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, n.Last(notify.KindError))
	}
	l.Warn("product_mutation_failed", "status", 400, "reason", "validation", "error", err)
	return validationResponse(c, err)
}
