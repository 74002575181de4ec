package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kiosk/pkg/db"
	authmw "github.com/Skotchmaster/kiosk/pkg/middleware/auth"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
)

type Deps struct {
	DB *gorm.DB

	AuthHandler      *AuthHTTP
	CatalogHandler   *CatalogHTTP
	CartHandler      *CartHTTP
	FavoritesHandler *FavoritesHTTP
	CheckoutHandler  *CheckoutHTTP
	AdminHandler     *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	gate := authmw.NewGate(d.AuthHandler.Resolver(), models.RoleAdmin)
	gate.OnDenied = Denied

	api := e.Group("/api/v1")

	api.POST("/auth/login", d.AuthHandler.Login)
	api.POST("/auth/logout", d.AuthHandler.Logout, gate.RequireAuth)
	api.GET("/me", d.AuthHandler.Me, gate.RequireAuth)

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/search", d.CatalogHandler.SearchProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)
	api.GET("/categories", d.CatalogHandler.GetCategories)

	user := api.Group("", gate.RequireAuth)

	user.GET("/cart", d.CartHandler.GetCart)
	user.POST("/cart", d.CartHandler.AddToCart)
	user.DELETE("/cart", d.CartHandler.DeleteFromCart)

	user.GET("/favorites", d.FavoritesHandler.List)
	user.POST("/favorites", d.FavoritesHandler.Add)
	user.DELETE("/favorites", d.FavoritesHandler.Remove)

	user.POST("/checkout", d.CheckoutHandler.Checkout)
	user.GET("/history", d.CheckoutHandler.GetHistory)
	user.GET("/stats", d.CheckoutHandler.GetStats)

	admin := api.Group("/admin", gate.RequireAdmin)
	admin.GET("/stats", d.AdminHandler.GetStats)
	admin.GET("/users", d.AdminHandler.GetUsers)
	admin.DELETE("/users", d.AdminHandler.DeleteUser)
	admin.GET("/sales", d.AdminHandler.GetSales)
}
