package storage_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/storage"
	"github.com/jhoicas/tikno-erp/pkg/config"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	repos, err := storage.Open(ctx, config.DBConfig{Driver: config.StoreDriverMemory}, logger.Nop())
	require.NoError(t, err)
	defer repos.Close()

	assert.Nil(t, repos.Pool)
	assert.NoError(t, repos.Ping(ctx))

	p := &entity.Product{Name: "Cuaderno", Price: decimal.NewFromInt(3), Stock: 2}
	require.NoError(t, repos.Products.Create(ctx, p))

	// La transacción ve el mismo almacenamiento que los repositorios sueltos.
	err = repos.Tx.Run(ctx, func(tx repository.TxRepos) error {
		got, err := tx.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Cuaderno", got.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := storage.Open(context.Background(), config.DBConfig{Driver: "sqlite"}, logger.Nop())
	assert.Error(t, err)
}
