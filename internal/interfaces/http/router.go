package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/application/analytics"
	"github.com/jhoicas/tikno-erp/internal/application/auth"
	"github.com/jhoicas/tikno-erp/internal/application/cart"
	"github.com/jhoicas/tikno-erp/internal/application/inventory"
	"github.com/jhoicas/tikno-erp/internal/application/sales"
	"github.com/jhoicas/tikno-erp/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ClientUC   *usecase.ClientUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	StockUC    *inventory.StockUseCase
	CartUC     *cart.UseCase
	Workflow   *sales.Workflow
	Receipts   *sales.ReceiptUseCase
	Dashboard  *analytics.DashboardUseCase
	Policy     *access.Policy
	JWTSecret  string
	DB         Pinger // nil con almacenamiento en memoria
}

// Router registra las rutas de la API.
// Las ventas se autorizan dentro del Workflow; el resto con RequirePolicy por operación.
func Router(app *fiber.App, deps RouterDeps) {
	policy := deps.Policy
	if policy == nil {
		policy = access.DefaultPolicy()
	}
	allow := func(op access.Operation) fiber.Handler { return RequirePolicy(policy, op) }

	welcome := NewWelcomeHandler(deps.DB)
	app.Get("/", welcome.Welcome)
	app.Get("/health", welcome.Health)

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/register", RequireAuth(), allow(access.UserCreate), authHandler.Register)
	authGroup.Get("/profile", RequireAuth(), authHandler.Profile)
	authGroup.Put("/profile", RequireAuth(), authHandler.UpdateProfile)
	authGroup.Patch("/profile", RequireAuth(), authHandler.UpdateProfile)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/usuarios", RequireAuth())
	users.Get("/", allow(access.UserRead), userHandler.List)
	users.Get("/:id", allow(access.UserRead), userHandler.GetByID)
	users.Put("/:id", allow(access.UserUpdate), userHandler.Update)
	users.Patch("/:id", allow(access.UserUpdate), userHandler.Update)
	users.Delete("/:id", allow(access.UserDelete), userHandler.Delete)

	// Clientes
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := api.Group("/clientes")
	clients.Get("/", allow(access.ClientRead), clientHandler.List)
	clients.Post("/", allow(access.ClientWrite), clientHandler.Create)
	clients.Get("/:cedula", allow(access.ClientRead), clientHandler.GetByCedula)
	clients.Put("/:cedula", allow(access.ClientWrite), clientHandler.Update)
	clients.Patch("/:cedula", allow(access.ClientWrite), clientHandler.Update)
	clients.Delete("/:cedula", allow(access.ClientWrite), clientHandler.Delete)

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categorias")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", allow(access.CategoryWrite), categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", allow(access.CategoryWrite), categoryHandler.Update)
	categories.Patch("/:id", allow(access.CategoryWrite), categoryHandler.Update)
	categories.Delete("/:id", allow(access.CategoryWrite), categoryHandler.Delete)

	// Productos + inventario
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	products := api.Group("/productos")
	products.Get("/", productHandler.List)
	products.Post("/", allow(access.ProductCreate), productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", allow(access.ProductUpdate), productHandler.Update)
	products.Patch("/:id", allow(access.ProductUpdate), productHandler.Update)
	products.Delete("/:id", allow(access.ProductDelete), productHandler.Delete)
	products.Post("/:id/stock/incrementar", allow(access.StockIncrement), inventoryHandler.Increment)
	products.Post("/:id/stock/decrementar", allow(access.StockDecrement), inventoryHandler.Decrement)

	// Carrito
	cartHandler := NewCartHandler(deps.CartUC)
	carts := api.Group("/carrito")
	carts.Get("/", cartHandler.List)
	carts.Post("/", allow(access.CartWrite), cartHandler.Add)
	carts.Delete("/", allow(access.CartWrite), cartHandler.Clear)
	carts.Put("/:id", allow(access.CartWrite), cartHandler.Update)
	carts.Patch("/:id", allow(access.CartWrite), cartHandler.Update)
	carts.Delete("/:id", allow(access.CartWrite), cartHandler.Remove)

	// Ventas
	saleHandler := NewSaleHandler(deps.Workflow, deps.Receipts)
	ventas := api.Group("/ventas")
	ventas.Get("/", saleHandler.List)
	if deps.Dashboard != nil {
		ventas.Get("/resumen", allow(access.SaleRead), NewDashboardHandler(deps.Dashboard).Summary)
	}
	ventas.Post("/", saleHandler.Create)
	ventas.Post("/procesar_desde_carrito", saleHandler.Checkout)
	ventas.Get("/:id", saleHandler.GetByID)
	ventas.Delete("/:id", saleHandler.Delete)
	ventas.Get("/:id/comprobante", saleHandler.Receipt)
	api.Get("/venta-items", saleHandler.ListItems)
}
