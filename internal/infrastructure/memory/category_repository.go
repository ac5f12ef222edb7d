package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías en memoria. El nombre es único sin distinguir mayúsculas.
type CategoryRepo struct{ view }

func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	return r.do(ctx, func(st *state) error {
		if categoryNameTaken(st, category.Name, 0) {
			return domain.ErrDuplicate
		}
		st.seqCategory++
		category.ID = entity.CategoryID(st.seqCategory)
		st.categories[category.ID] = *category
		return nil
	})
}

func (r *CategoryRepo) GetByID(ctx context.Context, id entity.CategoryID) (*entity.Category, error) {
	var out *entity.Category
	err := r.do(ctx, func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.categories[category.ID]; !ok {
			return domain.ErrNotFound
		}
		if categoryNameTaken(st, category.Name, category.ID) {
			return domain.ErrDuplicate
		}
		st.categories[category.ID] = *category
		return nil
	})
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.do(ctx, func(st *state) error {
		for _, c := range st.categories {
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Delete deja sin categoría a los productos que la tenían.
func (r *CategoryRepo) Delete(ctx context.Context, id entity.CategoryID) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.categories, id)
		for pid, p := range st.products {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
				st.products[pid] = p
			}
		}
		return nil
	})
}

func categoryNameTaken(st *state, name string, except entity.CategoryID) bool {
	for id, c := range st.categories {
		if id != except && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
