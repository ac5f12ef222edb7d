package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía inventario y ventas.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories}
}

// Create crea un producto. Precio > 0 y stock inicial >= 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: el precio debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	categoryID, err := uc.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	product := &entity.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		CategoryID:  categoryID,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto. domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id entity.ProductID) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza datos de catálogo. No permite modificar Stock.
func (uc *ProductUseCase) Update(ctx context.Context, id entity.ProductID, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, fmt.Errorf("%w: el precio debe ser mayor a 0", domain.ErrInvalidInput)
		}
		product.Price = in.Price.Round(2)
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.ClearCategory {
		product.CategoryID = nil
	} else if in.CategoryID != nil {
		if product.CategoryID, err = uc.category(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos (más recientes primero), opcionalmente por categoría.
func (uc *ProductUseCase) List(ctx context.Context, categoryID *entity.CategoryID, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{CategoryID: categoryID}, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id entity.ProductID) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) category(ctx context.Context, raw *int64) (*entity.CategoryID, error) {
	if raw == nil {
		return nil, nil
	}
	id := entity.CategoryID(*raw)
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: la categoría %d no existe", domain.ErrInvalidInput, id)
	}
	return &id, nil
}

// ToProductResponse convierte la entidad a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:           int64(p.ID),
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.StringFixed(2),
		Stock:        p.Stock,
		ImageURL:     p.ImageURL,
		CategoryName: p.CategoryName,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.CategoryID != nil {
		id := int64(*p.CategoryID)
		out.CategoryID = &id
	}
	return out
}
