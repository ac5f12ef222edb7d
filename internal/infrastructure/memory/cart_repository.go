package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo líneas de carrito en memoria. (dueño, producto) es único.
type CartRepo struct{ view }

func (r *CartRepo) Create(ctx context.Context, line *entity.CartLine) error {
	return r.do(ctx, func(st *state) error {
		if findCartLine(st, line.Owner, line.ProductID) != nil {
			return domain.ErrDuplicate
		}
		st.seqCart++
		line.ID = entity.CartLineID(st.seqCart)
		now := r.clock()
		line.CreatedAt, line.UpdatedAt = now, now
		st.cart[line.ID] = *line
		return nil
	})
}

func (r *CartRepo) GetByID(ctx context.Context, id entity.CartLineID) (*entity.CartLine, error) {
	var out *entity.CartLine
	err := r.do(ctx, func(st *state) error {
		if l, ok := st.cart[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *CartRepo) GetByOwnerAndProduct(ctx context.Context, owner entity.CartOwner, productID entity.ProductID) (*entity.CartLine, error) {
	var out *entity.CartLine
	err := r.do(ctx, func(st *state) error {
		if l := findCartLine(st, owner, productID); l != nil {
			cp := *l
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *CartRepo) UpdateQuantity(ctx context.Context, id entity.CartLineID, quantity int) error {
	return r.do(ctx, func(st *state) error {
		l, ok := st.cart[id]
		if !ok {
			return domain.ErrNotFound
		}
		l.Quantity = quantity
		l.UpdatedAt = r.clock()
		st.cart[id] = l
		return nil
	})
}

func (r *CartRepo) Delete(ctx context.Context, id entity.CartLineID) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.cart[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.cart, id)
		return nil
	})
}

func (r *CartRepo) ListByOwner(ctx context.Context, owner entity.CartOwner) ([]*entity.CartLine, error) {
	var out []*entity.CartLine
	err := r.do(ctx, func(st *state) error {
		for _, l := range st.cart {
			if l.Owner == owner {
				out = append(out, &l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}

func (r *CartRepo) DeleteByOwner(ctx context.Context, owner entity.CartOwner) (int64, error) {
	var n int64
	err := r.do(ctx, func(st *state) error {
		for id, l := range st.cart {
			if l.Owner == owner {
				delete(st.cart, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *CartRepo) DeleteSessionLinesBefore(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := r.do(ctx, func(st *state) error {
		for id, l := range st.cart {
			if l.Owner.IsSession() && l.UpdatedAt.Before(before) {
				delete(st.cart, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func findCartLine(st *state, owner entity.CartOwner, productID entity.ProductID) *entity.CartLine {
	for _, l := range st.cart {
		if l.Owner == owner && l.ProductID == productID {
			return &l
		}
	}
	return nil
}
