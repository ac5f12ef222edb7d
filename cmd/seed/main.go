// seed carga el catálogo inicial desde un CSV y crea el usuario administrador.
//
// Uso: go run ./cmd/seed [-latin1] [-admin-email x] [-admin-password y] [productos.csv]
// Columnas: nombre, precio (obligatorias), descripcion, stock, categoria, imagen_url.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/tikno-erp/internal/application/usecase"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/seed"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/storage"
	"github.com/jhoicas/tikno-erp/pkg/config"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1 (exportado desde Excel)")
	adminEmail := flag.String("admin-email", os.Getenv("ADMIN_EMAIL"), "email del administrador inicial")
	adminPassword := flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "contraseña del administrador inicial")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	if *adminEmail != "" {
		created, err := seed.EnsureAdmin(ctx, usecase.NewUserUseCase(repos.Users), *adminEmail, *adminPassword, "Administrador")
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Str("email", *adminEmail).Bool("creado", created).Msg("administrador inicial")
	}

	if flag.NArg() == 0 {
		return
	}
	path := flag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := seed.ReadProducts(f, seed.ReadOptions{Latin1: *latin1})
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	importer := seed.NewCatalogImporter(
		usecase.NewCategoryUseCase(repos.Categories),
		usecase.NewProductUseCase(repos.Products, repos.Categories),
	)
	res, err := importer.Import(ctx, rows)
	if err != nil {
		log.Fatal().Err(err).Msg("importar catálogo")
	}
	for _, s := range res.Skipped {
		log.Warn().Msg("fila omitida: " + s)
	}
	fmt.Printf("Importados %d productos, %d categorías nuevas, %d filas omitidas\n", res.Products, res.Categories, len(res.Skipped))
}
