package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version versión publicada de la API.
const Version = "1.0.0"

// Pinger comprueba la conexión al almacenamiento (lo implementa *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// WelcomeHandler raíz de la API y health check.
type WelcomeHandler struct {
	db  Pinger
	now func() time.Time
}

// NewWelcomeHandler db puede ser nil (almacenamiento en memoria).
func NewWelcomeHandler(db Pinger) *WelcomeHandler {
	return &WelcomeHandler{db: db, now: time.Now}
}

// Welcome godoc
// @Summary      Bienvenida
// @Tags         sistema
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *WelcomeHandler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":     "¡Bienvenido a ERP TIKNO API! 🚀",
		"description": "Sistema de gestión empresarial con inventario, ventas, carrito y administración de usuarios.",
		"version":     Version,
		"status":      "active",
		"timestamp":   h.now().Format(time.RFC3339),
		"endpoints": fiber.Map{
			"docs": "/docs",
			"authentication": fiber.Map{
				"login":    "/api/auth/login",
				"refresh":  "/api/auth/refresh",
				"register": "/api/auth/register",
				"profile":  "/api/auth/profile",
			},
			"resources": fiber.Map{
				"usuarios":    "/api/usuarios",
				"clientes":    "/api/clientes",
				"productos":   "/api/productos",
				"categorias":  "/api/categorias",
				"ventas":      "/api/ventas",
				"venta_items": "/api/venta-items",
				"carrito":     "/api/carrito",
			},
		},
		"features": []string{
			"Gestión de usuarios con roles y permisos",
			"Autenticación JWT (access + refresh)",
			"Administración de productos e inventario",
			"Gestión de clientes",
			"Ventas con comprobante PDF",
			"Carrito de compras por sesión o usuario",
			"Categorización de productos",
			"Control de stock atómico",
		},
	})
}

// Health godoc
// @Summary      Health check
// @Tags         sistema
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *WelcomeHandler) Health(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "version": Version})
}
