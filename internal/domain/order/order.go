// Package order contiene el pedido de venta como objeto de valor ya validado en forma.
package order

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// Line línea solicitada: cantidad > 0 y, si hay precio, precio > 0 con 2 decimales.
type Line struct {
	productID entity.ProductID
	quantity  int
	price     *decimal.Decimal
}

// NewLine valida la línea. price nil = usar el precio vigente del producto.
func NewLine(productID entity.ProductID, quantity int, price *decimal.Decimal) (Line, error) {
	if productID <= 0 {
		return Line{}, &domain.ProductNotFoundError{ProductID: productID}
	}
	if quantity <= 0 {
		return Line{}, domain.ErrInvalidQuantity
	}
	line := Line{productID: productID, quantity: quantity}
	if price != nil {
		if !price.IsPositive() {
			return Line{}, domain.ErrInvalidPrice
		}
		p := price.Round(2)
		if !p.IsPositive() {
			return Line{}, domain.ErrInvalidPrice
		}
		line.price = &p
	}
	return line, nil
}

func (l Line) ProductID() entity.ProductID { return l.productID }
func (l Line) Quantity() int               { return l.quantity }

// UnitPrice precio efectivo: el indicado o, en su defecto, el de catálogo.
func (l Line) UnitPrice(catalog decimal.Decimal) decimal.Decimal {
	if l.price != nil {
		return *l.price
	}
	return catalog.Round(2)
}

// Order conjunto no vacío de líneas.
type Order struct {
	lines []Line
}

// New retorna domain.ErrEmptyOrder si no hay líneas.
func New(lines []Line) (Order, error) {
	if len(lines) == 0 {
		return Order{}, domain.ErrEmptyOrder
	}
	cp := make([]Line, len(lines))
	copy(cp, lines)
	return Order{lines: cp}, nil
}

// Lines devuelve una copia de las líneas en el orden recibido.
func (o Order) Lines() []Line {
	cp := make([]Line, len(o.lines))
	copy(cp, o.lines)
	return cp
}

// QuantityByProduct suma las cantidades pedidas por producto.
func (o Order) QuantityByProduct() map[entity.ProductID]int {
	out := make(map[entity.ProductID]int, len(o.lines))
	for _, l := range o.lines {
		out[l.productID] += l.quantity
	}
	return out
}

// ParseQuantity interpreta la cantidad recibida en JSON: número entero o texto con un entero.
func ParseQuantity(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, domain.ErrInvalidQuantity
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, domain.ErrInvalidQuantity
		}
		s = strings.TrimSpace(str)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// 3.0 se acepta; 3.5 no.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
			return 0, domain.ErrInvalidQuantity
		}
		n = int64(f)
	}
	if n <= 0 || n > math.MaxInt32 {
		return 0, domain.ErrInvalidQuantity
	}
	return int(n), nil
}

// ParsePrice interpreta un precio opcional: número o texto decimal. Vacío/null = sin precio.
func ParsePrice(raw json.RawMessage) (*decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil, domain.ErrInvalidPrice
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return nil, nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, domain.ErrInvalidPrice
	}
	return &d, nil
}
