// Package storage elige la implementación de repositorios según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tikno-erp/internal/domain/repository"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/memory"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/migrate"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/tikno-erp/pkg/config"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

// Repositories repositorios listos para inyectar en los casos de uso.
type Repositories struct {
	Tx         repository.TxRunner
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Clients    repository.ClientRepository
	Users      repository.UserRepository
	Carts      repository.CartRepository
	Sales      repository.SaleRepository
	Analytics  repository.AnalyticsRepository

	// Pool nil con el driver memory.
	Pool *pgxpool.Pool
}

// Ping comprueba la base de datos (siempre OK en memoria).
func (r *Repositories) Ping(ctx context.Context) error {
	if r.Pool == nil {
		return nil
	}
	return r.Pool.Ping(ctx)
}

// Close libera el pool, si lo hay.
func (r *Repositories) Close() {
	if r.Pool != nil {
		r.Pool.Close()
	}
}

// Open abre el almacenamiento configurado. Con AutoMigrate aplica las migraciones pendientes.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Repositories, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return InMemory(memory.NewStore()), nil
	case config.StoreDriverPostgres, "":
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}

	pool, err := postgres.NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		if v, dirty, err := migrate.Version(ctx, pool); err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("migraciones aplicadas")
		}
	}
	return &Repositories{
		Tx:         postgres.NewTxRunner(pool),
		Products:   postgres.NewProductRepository(pool),
		Categories: postgres.NewCategoryRepository(pool),
		Clients:    postgres.NewClientRepository(pool),
		Users:      postgres.NewUserRepository(pool),
		Carts:      postgres.NewCartRepository(pool),
		Sales:      postgres.NewSaleRepository(pool),
		Analytics:  postgres.NewAnalyticsRepository(pool),
		Pool:       pool,
	}, nil
}

// InMemory envuelve un memory.Store.
func InMemory(s *memory.Store) *Repositories {
	return &Repositories{
		Tx:         s,
		Products:   s.Products(),
		Categories: s.Categories(),
		Clients:    s.Clients(),
		Users:      s.Users(),
		Carts:      s.Carts(),
		Sales:      s.Sales(),
		Analytics:  s.Analytics(),
	}
}
