package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CartOwner dueño de un carrito: sesión anónima XOR usuario autenticado.
type CartOwner struct {
	SessionID string
	UserID    UserID
}

// SessionOwner construye un dueño anónimo.
func SessionOwner(sessionID string) CartOwner { return CartOwner{SessionID: strings.TrimSpace(sessionID)} }

// UserOwner construye un dueño autenticado.
func UserOwner(userID UserID) CartOwner {
	return CartOwner{UserID: UserID(strings.TrimSpace(string(userID)))}
}

// Valid exige exactamente uno de SessionID o UserID.
func (o CartOwner) Valid() bool {
	return (o.SessionID != "") != (o.UserID != "")
}

// IsSession indica si el dueño es una sesión anónima.
func (o CartOwner) IsSession() bool { return o.SessionID != "" && o.UserID == "" }

// String clave legible para logs.
func (o CartOwner) String() string {
	if o.IsSession() {
		return "session:" + o.SessionID
	}
	return "user:" + string(o.UserID)
}

// CartLine línea pendiente de un carrito. UnitPrice es la foto del precio al momento de agregar.
type CartLine struct {
	ID        CartLineID
	Owner     CartOwner
	ProductID ProductID
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal cantidad × precio unitario guardado.
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
