package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

// ClientUseCase CRUD de clientes identificados por cédula.
type ClientUseCase struct {
	repo repository.ClientRepository
}

func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create registra un cliente. Cédula y nombre obligatorios; email único si se indica.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	c := &entity.Client{
		Cedula: entity.ClientID(strings.TrimSpace(in.Cedula)),
		Name:   strings.TrimSpace(in.Name),
		Email:  strings.TrimSpace(in.Email),
		Phone:  strings.TrimSpace(in.Phone),
		City:   strings.TrimSpace(in.City),
	}
	if err := validateClient(c); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

func (uc *ClientUseCase) Get(ctx context.Context, cedula entity.ClientID) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByCedula(ctx, cedula)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClientNotFound
	}
	return toClientResponse(c), nil
}

func (uc *ClientUseCase) Update(ctx context.Context, cedula entity.ClientID, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByCedula(ctx, cedula)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrClientNotFound
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.City != nil {
		c.City = strings.TrimSpace(*in.City)
	}
	if err := validateClient(c); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// List más recientes primero.
func (uc *ClientUseCase) List(ctx context.Context, limit, offset int) ([]dto.ClientResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

func (uc *ClientUseCase) Delete(ctx context.Context, cedula entity.ClientID) error {
	if err := uc.repo.Delete(ctx, cedula); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrClientNotFound
		}
		return err
	}
	return nil
}

func validateClient(c *entity.Client) error {
	if c.Cedula == "" {
		return fmt.Errorf("%w: la cédula es obligatoria", domain.ErrInvalidInput)
	}
	if len(c.Cedula) > 20 {
		return fmt.Errorf("%w: la cédula admite hasta 20 caracteres", domain.ErrInvalidInput)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
		}
	}
	return nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		Cedula:    string(c.Cedula),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		City:      c.City,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
