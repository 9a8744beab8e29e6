package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stock_dashboard/internal/auth"
	"github.com/Skotchmaster/stock_dashboard/internal/middleware/csrf"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	HealthHandler  *HealthHTTP
	Gate           *auth.Gate
	Slots          auth.SlotFunc
	CSRF           csrf.Config
}

func Register(e *echo.Echo, d *Deps) error {
	r, err := NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = r

	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)
	e.GET("/static/app.css", func(c echo.Context) error {
		css, err := templateFS.ReadFile("templates/app.css")
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.Blob(http.StatusOK, "text/css; charset=utf-8", css)
	})

	signedIn := d.Gate.RequireView(d.Slots, nil)
	adminOnly := d.Gate.RequireView(d.Slots, auth.Role(session.RoleAdmin))

	views := e.Group("", csrf.Middleware(d.CSRF))
	views.GET("/", d.AuthHandler.Root)
	views.GET("/signin", d.AuthHandler.SignInPage)
	views.POST("/signin", d.AuthHandler.SignIn)
	views.POST("/signout", d.AuthHandler.SignOut)
	views.GET("/dashboard", d.ProductHandler.Dashboard, signedIn)

	products := views.Group("/dashboard/products", adminOnly)
	products.GET("/new", d.ProductHandler.NewProduct)
	products.POST("", d.ProductHandler.CreateProduct)
	products.GET("/:id/edit", d.ProductHandler.EditProduct)
	products.POST("/:id", d.ProductHandler.UpdateProduct)
	products.GET("/:id/delete", d.ProductHandler.ConfirmDelete)
	products.POST("/:id/delete", d.ProductHandler.DeleteProduct)

	api := e.Group("/api/v1")
	api.POST("/auth/signin", d.AuthHandler.APISignIn)
	api.POST("/auth/signout", d.AuthHandler.APISignOut)
	api.GET("/session", d.AuthHandler.APISession, d.Gate.RequireAPI(d.Slots, nil))
	api.GET("/products", d.ProductHandler.APIList, d.Gate.RequireAPI(d.Slots, nil))

	admin := api.Group("/admin/products", d.Gate.RequireAPI(d.Slots, auth.Role(session.RoleAdmin)))
	admin.POST("", d.ProductHandler.APICreate)
	admin.PATCH("/:id", d.ProductHandler.APIUpdate)
	admin.DELETE("/:id", d.ProductHandler.APIDelete)

	return nil
}
