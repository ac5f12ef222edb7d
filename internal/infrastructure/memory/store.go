// Package memory implementa los repositorios en memoria (desarrollo, demos y tests).
// Todas las operaciones se serializan con un único mutex; Run toma el mutex durante
// toda la transacción y restaura la foto previa si fn falla.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store almacén en memoria.
type Store struct {
	mu  sync.Mutex
	st  state
	now func() time.Time
}

type state struct {
	products   map[entity.ProductID]entity.Product
	categories map[entity.CategoryID]entity.Category
	clients    map[entity.ClientID]entity.Client
	users      map[entity.UserID]entity.User
	cart       map[entity.CartLineID]entity.CartLine
	sales      map[entity.SaleID]entity.Sale
	items      map[entity.SaleItemID]entity.SaleItem

	seqProduct  int64
	seqCategory int64
	seqCart     int64
	seqSale     int64
	seqItem     int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		st: state{
			products:   map[entity.ProductID]entity.Product{},
			categories: map[entity.CategoryID]entity.Category{},
			clients:    map[entity.ClientID]entity.Client{},
			users:      map[entity.UserID]entity.User{},
			cart:       map[entity.CartLineID]entity.CartLine{},
			sales:      map[entity.SaleID]entity.Sale{},
			items:      map[entity.SaleItemID]entity.SaleItem{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SetClock reemplaza el reloj (tests de expiración).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (st state) clone() state {
	cp := st
	cp.products = cloneMap(st.products)
	cp.categories = cloneMap(st.categories)
	cp.clients = cloneMap(st.clients)
	cp.users = cloneMap(st.users)
	cp.cart = cloneMap(st.cart)
	cp.sales = cloneMap(st.sales)
	cp.items = cloneMap(st.items)
	return cp
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// view acceso al estado. inTx indica que el mutex ya está tomado por Run.
type view struct {
	s    *Store
	inTx bool
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(&v.s.st)
}

func (v view) clock() time.Time { return v.s.now() }

// Run ejecuta fn con repositorios atados a la transacción. Si fn retorna error el estado vuelve atrás.
func (s *Store) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	v := view{s: s, inTx: true}
	err := fn(repository.TxRepos{
		Products: &ProductRepo{v},
		Sales:    &SaleRepo{v},
		Carts:    &CartRepo{v},
		Clients:  &ClientRepo{v},
	})
	if err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{view{s: s}} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{view{s: s}} }

// Clients repositorio de clientes.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{view{s: s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{view{s: s}} }

// Carts repositorio de carrito.
func (s *Store) Carts() *CartRepo { return &CartRepo{view{s: s}} }

// Sales repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{view{s: s}} }

// Analytics agregados de ventas.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{view{s: s}} }

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
