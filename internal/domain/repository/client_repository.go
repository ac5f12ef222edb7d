package repository

import (
	"context"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client (clave: cédula).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByCedula(ctx context.Context, cedula entity.ClientID) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
	Delete(ctx context.Context, cedula entity.ClientID) error
}
