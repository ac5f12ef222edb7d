package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct{ view }

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return domain.ErrDuplicate
		}
		if userEmailTaken(st, user.Email, user.ID) {
			return domain.ErrEmailAlreadyExists
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id entity.UserID) (*entity.User, error) {
	var out *entity.User
	err := r.do(ctx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.do(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.ErrUserNotFound
		}
		if userEmailTaken(st, user.Email, user.ID) {
			return domain.ErrEmailAlreadyExists
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.do(ctx, func(st *state) error {
		for _, u := range st.users {
			out = append(out, &u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, limit, offset), err
}

func (r *UserRepo) Delete(ctx context.Context, id entity.UserID) error {
	return r.do(ctx, func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(st.users, id)
		return nil
	})
}

func userEmailTaken(st *state, email string, except entity.UserID) bool {
	for id, u := range st.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
