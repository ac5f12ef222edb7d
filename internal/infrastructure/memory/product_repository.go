package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ view }

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.do(ctx, func(st *state) error {
		st.seqProduct++
		product.ID = entity.ProductID(st.seqProduct)
		now := r.clock()
		if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}
		product.UpdatedAt = now
		p := *product
		p.CategoryName = ""
		st.products[p.ID] = p
		product.CategoryName = categoryName(st, p.CategoryID)
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id entity.ProductID) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return nil
		}
		p.CategoryName = categoryName(st, p.CategoryID)
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.do(ctx, func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = product.Name
		cur.Description = product.Description
		cur.Price = product.Price
		cur.ImageURL = product.ImageURL
		cur.CategoryID = product.CategoryID
		cur.UpdatedAt = r.clock()
		st.products[cur.ID] = cur
		product.Stock = cur.Stock
		product.UpdatedAt = cur.UpdatedAt
		product.CategoryName = categoryName(st, cur.CategoryID)
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.do(ctx, func(st *state) error {
		for _, p := range st.products {
			if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
				continue
			}
			p.CategoryName = categoryName(st, p.CategoryID)
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, limit, offset), err
}

func (r *ProductRepo) Delete(ctx context.Context, id entity.ProductID) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepo) DecrementStock(ctx context.Context, id entity.ProductID, amount int) (int, error) {
	var stock int
	err := r.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return &domain.ProductNotFoundError{ProductID: id}
		}
		if p.Stock < amount {
			return &domain.InsufficientStockError{ProductID: id, Available: p.Stock, Requested: amount}
		}
		p.Stock -= amount
		p.UpdatedAt = r.clock()
		st.products[id] = p
		stock = p.Stock
		return nil
	})
	return stock, err
}

func (r *ProductRepo) IncrementStock(ctx context.Context, id entity.ProductID, amount int) (int, error) {
	var stock int
	err := r.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return &domain.ProductNotFoundError{ProductID: id}
		}
		p.Stock += amount
		p.UpdatedAt = r.clock()
		st.products[id] = p
		stock = p.Stock
		return nil
	})
	return stock, err
}

func categoryName(st *state, id *entity.CategoryID) string {
	if id == nil {
		return ""
	}
	return st.categories[*id].Name
}
