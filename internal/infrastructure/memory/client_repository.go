package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes en memoria. Cédula y email son únicos.
type ClientRepo struct{ view }

func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.clients[client.Cedula]; ok {
			return domain.ErrDuplicate
		}
		if clientEmailTaken(st, client.Email, client.Cedula) {
			return domain.ErrEmailAlreadyExists
		}
		now := r.clock()
		client.CreatedAt, client.UpdatedAt = now, now
		st.clients[client.Cedula] = *client
		return nil
	})
}

func (r *ClientRepo) GetByCedula(ctx context.Context, cedula entity.ClientID) (*entity.Client, error) {
	var out *entity.Client
	err := r.do(ctx, func(st *state) error {
		if c, ok := st.clients[cedula]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ClientRepo) Update(ctx context.Context, client *entity.Client) error {
	return r.do(ctx, func(st *state) error {
		cur, ok := st.clients[client.Cedula]
		if !ok {
			return domain.ErrNotFound
		}
		if clientEmailTaken(st, client.Email, client.Cedula) {
			return domain.ErrEmailAlreadyExists
		}
		client.CreatedAt = cur.CreatedAt
		client.UpdatedAt = r.clock()
		st.clients[client.Cedula] = *client
		return nil
	})
}

func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	err := r.do(ctx, func(st *state) error {
		for _, c := range st.clients {
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Cedula < out[j].Cedula
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, limit, offset), err
}

func (r *ClientRepo) Delete(ctx context.Context, cedula entity.ClientID) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.clients[cedula]; !ok {
			return domain.ErrNotFound
		}
		delete(st.clients, cedula)
		return nil
	})
}

func clientEmailTaken(st *state, email string, except entity.ClientID) bool {
	if email == "" {
		return false
	}
	for id, c := range st.clients {
		if id != except && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}
