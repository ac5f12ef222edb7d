// Package access resuelve qué roles pueden ejecutar cada operación.
// La política es configuración (operación -> roles), no código.
package access

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// Operation nombre estable de una operación protegible.
type Operation string

const (
	SaleRead     Operation = "ventas.ver"
	SaleCreate   Operation = "ventas.crear"
	SaleCheckout Operation = "ventas.procesar_carrito"
	SaleDelete   Operation = "ventas.eliminar"

	ProductCreate Operation = "productos.crear"
	ProductUpdate Operation = "productos.actualizar"
	ProductDelete Operation = "productos.eliminar"

	StockIncrement Operation = "inventario.incrementar"
	StockDecrement Operation = "inventario.decrementar"

	CategoryWrite Operation = "categorias.escribir"

	ClientRead  Operation = "clientes.ver"
	ClientWrite Operation = "clientes.escribir"

	UserRead   Operation = "usuarios.ver"
	UserCreate Operation = "usuarios.crear"
	UserUpdate Operation = "usuarios.actualizar"
	UserDelete Operation = "usuarios.eliminar"

	CartWrite Operation = "carrito.escribir"
)

// AnyAuthenticated en la lista de roles: basta con estar autenticado.
const AnyAuthenticated = "*"

var known = map[Operation]bool{
	SaleRead: true, SaleCreate: true, SaleCheckout: true, SaleDelete: true,
	ProductCreate: true, ProductUpdate: true, ProductDelete: true,
	StockIncrement: true, StockDecrement: true,
	CategoryWrite: true,
	ClientRead: true, ClientWrite: true,
	UserRead: true, UserCreate: true, UserUpdate: true, UserDelete: true,
	CartWrite: true,
}

// Caller identidad autenticada de quien invoca.
type Caller struct {
	UserID     entity.UserID
	Email      string
	Name       string
	Role       string
	AccessZone string
}

// IsAdmin admin o staff.
func (c Caller) IsAdmin() bool { return entity.IsAdminRole(c.Role) }

type callerKey struct{}

// WithCaller adjunta el llamador al contexto.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom obtiene el llamador del contexto, si hay uno.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// Policy mapa operación -> roles. Sin entrada (o lista vacía) la operación es abierta.
type Policy struct {
	rules map[Operation][]string
}

// DefaultPolicy las ventas y el carrito quedan abiertos; el catálogo se escribe con admin/staff.
func DefaultPolicy() *Policy {
	admins := []string{entity.RoleAdmin, entity.RoleStaff}
	return &Policy{rules: map[Operation][]string{
		ProductCreate:  admins,
		ProductUpdate:  admins,
		ProductDelete:  admins,
		StockIncrement: admins,
		StockDecrement: admins,
		ClientRead:     {AnyAuthenticated},
		ClientWrite:    {AnyAuthenticated},
		UserRead:       {AnyAuthenticated},
		UserUpdate:     {AnyAuthenticated},
		UserCreate:     admins,
		UserDelete:     admins,
	}}
}

// ParsePolicy aplica sobre la política por defecto reglas con formato
// "ventas.eliminar=admin|staff;clientes.ver=*". "op=" deja la operación abierta.
func ParsePolicy(spec string) (*Policy, error) {
	p := DefaultPolicy()
	for _, rule := range strings.Split(spec, ";") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		op, roles, ok := strings.Cut(rule, "=")
		if !ok {
			return nil, fmt.Errorf("regla de acceso inválida %q: se espera op=rol|rol", rule)
		}
		operation := Operation(strings.TrimSpace(op))
		if !known[operation] {
			return nil, fmt.Errorf("operación desconocida en política de acceso: %q", operation)
		}
		var list []string
		for _, r := range strings.Split(roles, "|") {
			if r = strings.TrimSpace(r); r != "" {
				list = append(list, r)
			}
		}
		p.rules[operation] = list
	}
	return p, nil
}

// Roles roles exigidos por op (vacío = abierta).
func (p *Policy) Roles(op Operation) []string {
	return append([]string(nil), p.rules[op]...)
}

// IsOpen indica si op no exige autenticación.
func (p *Policy) IsOpen(op Operation) bool {
	return len(p.rules[op]) == 0
}

// Authorize decide para un llamador (nil = anónimo).
// ErrUnauthorized si hace falta identidad, ErrForbidden si el rol no alcanza.
func (p *Policy) Authorize(caller *Caller, op Operation) error {
	roles := p.rules[op]
	if len(roles) == 0 {
		return nil
	}
	if caller == nil {
		return domain.ErrUnauthorized
	}
	for _, r := range roles {
		if r == AnyAuthenticated || r == caller.Role {
			return nil
		}
	}
	return domain.ErrForbidden
}

// Check autoriza usando el llamador guardado en ctx.
func (p *Policy) Check(ctx context.Context, op Operation) error {
	if c, ok := CallerFrom(ctx); ok {
		return p.Authorize(&c, op)
	}
	return p.Authorize(nil, op)
}

// String representación estable, útil en logs de arranque.
func (p *Policy) String() string {
	ops := make([]string, 0, len(p.rules))
	for op, roles := range p.rules {
		if len(roles) > 0 {
			ops = append(ops, string(op)+"="+strings.Join(roles, "|"))
		}
	}
	sort.Strings(ops)
	return strings.Join(ops, ";")
}
