// migrate aplica o revierte las migraciones de la base de datos.
//
// Uso: go run ./cmd/migrate [up|down [n]|version]
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/tikno-erp/internal/infrastructure/migrate"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/tikno-erp/pkg/config"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	switch cmd {
	case "up":
		err = migrate.Apply(ctx, pool)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil || steps <= 0 {
				log.Fatal().Str("n", os.Args[2]).Msg("down: n debe ser un entero positivo")
			}
		}
		err = migrate.Rollback(ctx, pool, steps)
	case "version":
	default:
		log.Fatal().Str("cmd", cmd).Msg("comando desconocido (up|down|version)")
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migración fallida")
	}

	v, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("leer versión")
	}
	log.Info().Uint("version", v).Bool("dirty", dirty).Msg("estado de migraciones")
}
