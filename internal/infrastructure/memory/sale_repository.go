package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas e ítems en memoria.
type SaleRepo struct{ view }

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.do(ctx, func(st *state) error {
		st.seqSale++
		sale.ID = entity.SaleID(st.seqSale)
		now := r.clock()
		if sale.CreatedAt.IsZero() {
			sale.CreatedAt = now
		}
		sale.UpdatedAt = now
		st.sales[sale.ID] = *sale
		return nil
	})
}

func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	return r.do(ctx, func(st *state) error {
		st.seqItem++
		item.ID = entity.SaleItemID(st.seqItem)
		item.CreatedAt = r.clock()
		st.items[item.ID] = *item
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, id entity.SaleID) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.do(ctx, func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if filter.ClientID != nil && (s.ClientID == nil || *s.ClientID != *filter.ClientID) {
				continue
			}
			if filter.From != nil && s.CreatedAt.Before(startOfDay(*filter.From)) {
				continue
			}
			if filter.To != nil && !s.CreatedAt.Before(startOfDay(*filter.To).AddDate(0, 0, 1)) {
				continue
			}
			out = append(out, &s)
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

func (r *SaleRepo) ListItems(ctx context.Context, saleID *entity.SaleID) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	err := r.do(ctx, func(st *state) error {
		for _, it := range st.items {
			if saleID != nil && it.SaleID != *saleID {
				continue
			}
			out = append(out, &it)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *SaleRepo) DeleteItemsBySale(ctx context.Context, saleID entity.SaleID) (int64, error) {
	var n int64
	err := r.do(ctx, func(st *state) error {
		for id, it := range st.items {
			if it.SaleID == saleID {
				delete(st.items, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *SaleRepo) Delete(ctx context.Context, id entity.SaleID) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.sales, id)
		return nil
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
