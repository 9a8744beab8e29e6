package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/stock_dashboard/internal/catalog"
	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/models"
	"github.com/Skotchmaster/stock_dashboard/internal/notify"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
	"github.com/Skotchmaster/stock_dashboard/internal/validation"
)

const msgProductNotFound = "Product not found"

// ProductReader loads a single product for the edit and delete forms.
type ProductReader interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
}

type ProductHTTP struct {
	Mutator  *catalog.Mutator
	Products ProductReader
	Flash    *notify.FlashStore
}

type dashboardPage struct {
	View         catalog.View
	Filter       catalog.Filter
	Status       string
	Admin        bool
	EmptyMessage string
}

type productFormPage struct {
	Input  catalog.ProductInput
	Fields validation.Errors
	Action string
	Submit string
}

type deletePage struct {
	Product models.Product
}

// Dashboard renders the admin or the user view depending on the session role.
func (h *ProductHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	s, _ := session.FromContext(ctx)

	filter := catalog.Filter{
		SearchTerm: c.QueryParam("q"),
		Status:     catalog.ParseStatusFilter(c.QueryParam("status")),
	}
	if s.IsAdmin() {
		filter.Status = catalog.StatusAll
	}

	var n notify.Collector
	view := catalog.Derive(h.Mutator.Fetch(ctx, &n), filter)

	p := dashboardPage{
		View:         view,
		Filter:       filter,
		Status:       string(filter.Status),
		Admin:        s.IsAdmin(),
		EmptyMessage: emptyMessage(view.Empty, s.IsAdmin()),
	}
	name := "dashboard_user"
	if p.Admin {
		name = "dashboard_admin"
	}
	return render(c, h.Flash, http.StatusOK, name, "Dashboard", p, n.Messages()...)
}

func emptyMessage(e catalog.EmptyState, admin bool) string {
	switch {
	case e == catalog.EmptyNoMatches && admin:
		return "Try adjusting your search criteria."
	case e == catalog.EmptyNoMatches:
		return "Try adjusting your search or filter criteria."
	case admin:
		return "Get started by creating your first product."
	}
	return "No products are available at the moment."
}

func (h *ProductHTTP) NewProduct(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, 0, catalog.ProductInput{}, nil)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid form", "error", err)
		return h.renderForm(c, http.StatusBadRequest, 0, in, nil, notify.Message{Kind: notify.KindError, Text: catalog.MsgCreateFailed})
	}

	var n notify.Collector
	if err := h.Mutator.Create(ctx, &n, in); err != nil {
		return h.formError(c, l, 0, in, err, n.Messages())
	}

	keep(h.Flash, c, n.Messages())
	l.Info("create_product_success")
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *ProductHTTP) EditProduct(c echo.Context) error {
	prod, err := h.load(c)
	if err != nil {
		return err
	}
	if prod == nil {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return h.renderForm(c, http.StatusOK, prod.ID, catalog.InputFromProduct(*prod), nil)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid form", "error", err)
		return h.renderForm(c, http.StatusBadRequest, id, in, nil, notify.Message{Kind: notify.KindError, Text: catalog.MsgUpdateFailed})
	}

	var n notify.Collector
	if err := h.Mutator.Update(ctx, &n, id, in); err != nil {
		return h.formError(c, l, id, in, err, n.Messages())
	}

	keep(h.Flash, c, n.Messages())
	l.Info("update_product_success", "product_id", id)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *ProductHTTP) ConfirmDelete(c echo.Context) error {
	prod, err := h.load(c)
	if err != nil {
		return err
	}
	if prod == nil {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return render(c, h.Flash, http.StatusOK, "product_delete", "Delete Product", deletePage{Product: *prod})
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var n notify.Collector
	err = h.Mutator.Delete(ctx, &n, id, c.FormValue("confirm") == "yes")
	if errors.Is(err, catalog.ErrNotConfirmed) {
		return c.Redirect(http.StatusSeeOther, "/dashboard/products/"+strconv.FormatUint(uint64(id), 10)+"/delete")
	}
	keep(h.Flash, c, n.Messages())
	if err != nil {
		l.Warn("delete_product_failed", "status", 303, "product_id", id, "error", err)
	} else {
		l.Info("delete_product_success", "product_id", id)
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// formError re-renders the form with the submitted values.
func (h *ProductHTTP) formError(c echo.Context, l *slog.Logger, id uint, in catalog.ProductInput, err error, msgs []notify.Message) error {
	var verr validation.Errors
	if errors.As(err, &verr) {
		l.Warn("product_form_invalid", "status", 422, "error", err)
		return h.renderForm(c, http.StatusUnprocessableEntity, id, in, verr, msgs...)
	}
	code := http.StatusBadGateway
	if errors.Is(err, gorm.ErrRecordNotFound) {
		code = http.StatusNotFound
	}
	l.Warn("product_mutation_failed", "status", code, "error", err)
	return h.renderForm(c, code, id, in, nil, msgs...)
}

func (h *ProductHTTP) renderForm(c echo.Context, code int, id uint, in catalog.ProductInput, fields validation.Errors, msgs ...notify.Message) error {
	p := productFormPage{Input: in, Fields: fields, Action: "/dashboard/products", Submit: "Add Product"}
	title := "Add New Product"
	if id != 0 {
		p.Action = "/dashboard/products/" + strconv.FormatUint(uint64(id), 10)
		p.Submit = "Update Product"
		title = "Edit Product"
	}
	return render(c, h.Flash, code, "product_form", title, p, msgs...)
}

// load returns nil without error when the product is gone; the caller
// redirects and the flash explains why.
func (h *ProductHTTP) load(c echo.Context) (*models.Product, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.load")

	id, err := parseID(c)
	if err != nil {
		l.Warn("load_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return nil, echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	prod, err := h.Products.Get(ctx, id)
	if err != nil {
		if h.Flash != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.Flash.For(c).Error(msgProductNotFound)
			} else {
				h.Flash.For(c).Error(catalog.MsgFetchFailed)
			}
		}
		l.Warn("load_product_failed", "product_id", id, "error", err)
		return nil, nil
	}
	return prod, nil
}

func parseID(c echo.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}
