package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/application/analytics"
	"github.com/jhoicas/tikno-erp/internal/application/auth"
	"github.com/jhoicas/tikno-erp/internal/application/cart"
	"github.com/jhoicas/tikno-erp/internal/application/inventory"
	"github.com/jhoicas/tikno-erp/internal/application/sales"
	"github.com/jhoicas/tikno-erp/internal/application/usecase"
	infrapdf "github.com/jhoicas/tikno-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/scheduler"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/tikno-erp/internal/interfaces/http"
	"github.com/jhoicas/tikno-erp/pkg/config"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	policy, err := access.ParsePolicy(cfg.Access.Policy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de acceso")
	}
	log.Info().Str("policy", policy.String()).Msg("política de acceso cargada")

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	userUC := usecase.NewUserUseCase(repos.Users)
	clientUC := usecase.NewClientUseCase(repos.Clients)
	categoryUC := usecase.NewCategoryUseCase(repos.Categories)
	productUC := usecase.NewProductUseCase(repos.Products, repos.Categories)
	stockUC := inventory.NewStockUseCase(repos.Products, log)
	cartUC := cart.NewUseCase(repos.Carts, repos.Products, log)

	workflow := sales.NewWorkflow(repos.Tx, repos.Sales, repos.Products, repos.Clients,
		sales.WithGuard(policy),
		sales.WithLogger(log),
	)
	// PDF: comprobante de venta
	receiptUC := sales.NewReceiptUseCase(workflow, infrapdf.NewReceiptGenerator(), strings.ToUpper(cfg.App.Name))

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})

	jobs := scheduler.New(log)
	ttl := time.Duration(cfg.Cart.SessionTTLHours) * time.Hour
	if err := jobs.AddCartJanitor(cfg.Cart.JanitorSpec, ttl, cartUC); err != nil {
		log.Fatal().Err(err).Msg("programar limpieza de carritos")
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(corsConfig(cfg.CORS)))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    "ERP TIKNO API",
		}))
	} else {
		log.Warn().Str("path", cfg.HTTP.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		ClientUC:   clientUC,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		StockUC:    stockUC,
		CartUC:     cartUC,
		Workflow:   workflow,
		Receipts:   receiptUC,
		Dashboard:  analytics.NewDashboardUseCase(repos.Analytics),
		Policy:     policy,
		JWTSecret:  cfg.JWT.Secret,
		DB:         repos,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jobs.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func corsConfig(c config.CORSConfig) cors.Config {
	if c.AllowAll {
		// Fiber no admite "*" junto con credenciales.
		return cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			MaxAge:       c.MaxAge,
		}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(c.AllowedOrigins, ","),
		AllowCredentials: c.AllowCredentials,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		MaxAge:           c.MaxAge,
	}
}
