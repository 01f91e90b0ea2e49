// Package routes wires the REST API onto a fiber app.
package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shelfsensei/auth"
	"shelfsensei/config"
	"shelfsensei/dashboard"
	"shelfsensei/events"
)

// Deps are the services the handlers run on. Hub is optional.
type Deps struct {
	DB        *gorm.DB
	Auth      *auth.Service
	Dashboard *dashboard.Service
	Events    events.Publisher
	Hub       *events.Hub
	Log       *zap.Logger
	Config    *config.Config
}

type Handler struct {
	Deps
	validate *validator.Validate
}

func SetupRoutes(app *fiber.App, d Deps) {
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	h := &Handler{Deps: d, validate: newValidator()}

	if d.Hub != nil {
		app.Get("/ws", adaptor.HTTPHandler(d.Hub))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.login)
	authGroup.Get("/verify", auth.Required(d.Auth), h.verify)

	if d.Config.Server.RequireAuth {
		api.Use(auth.Required(d.Auth))
	} else {
		api.Use(auth.Optional(d.Auth))
	}

	categories := api.Group("/categories")
	categories.Get("/", h.listCategories)
	categories.Post("/", h.createCategory)
	categories.Get("/:id", h.getCategory)
	categories.Put("/:id", h.updateCategory)
	categories.Delete("/:id", h.deleteCategory)

	products := api.Group("/products")
	products.Get("/", h.listProducts)
	products.Post("/", h.createProduct)
	products.Get("/:id", h.getProduct)
	products.Put("/:id", h.updateProduct)
	products.Delete("/:id", h.deleteProduct)

	vendors := api.Group("/vendors")
	vendors.Get("/", h.listVendors)
	vendors.Post("/", h.createVendor)
	vendors.Get("/:id", h.getVendor)
	vendors.Put("/:id", h.updateVendor)
	vendors.Delete("/:id", h.deleteVendor)

	shops := api.Group("/shops")
	shops.Get("/", h.listShops)
	shops.Post("/", h.createShop)
	shops.Get("/:id", h.getShop)
	shops.Put("/:id", h.updateShop)
	shops.Delete("/:id", h.deleteShop)

	users := api.Group("/users")
	users.Get("/", h.listUsers)
	users.Post("/", h.createUser)
	users.Get("/:id", h.getUser)
	users.Put("/:id", h.updateUser)
	users.Delete("/:id", h.deleteUser)

	inventory := api.Group("/inventory")
	inventory.Get("/", h.listMovements)
	inventory.Post("/", h.createMovement)
	inventory.Get("/stock", h.stock)
	inventory.Get("/:id", h.getMovement)
	inventory.Put("/:id", h.updateMovement)
	inventory.Delete("/:id", h.deleteMovement)

	dash := api.Group("/dashboard")
	dash.Get("/", h.summary)
	dash.Get("/stats", h.stats)
	dash.Get("/inventory-history", h.history)
	dash.Get("/products-by-category", h.productsByCategory)
	dash.Get("/inventory-by-category", h.inventoryByCategory)
	dash.Get("/price-ranges", h.priceRanges)
	dash.Get("/top-products", h.topProducts)

	api.Get("/forecasting/*", h.forward(d.Config.Upstream.ForecastURL))
	api.Get("/chatAI", h.forward(d.Config.Upstream.ChatURL))
	api.Get("/getForecast", h.forward(d.Config.Upstream.ChatURL))
}
