package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const (
	saleColumns = `id, cliente_cedula, total, created_at, updated_at`
	itemColumns = `id, venta_id, producto_id, cantidad, precio_unitario, created_at`
)

// SaleRepo ventas y detalles de venta sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO ventas (cliente_cedula, total, fecha, created_at, updated_at)
		VALUES ($1, $2, COALESCE($3, now()), COALESCE($3, now()), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, sale.ClientID, sale.Total, timeArg(sale.CreatedAt)).
		Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	query := `
		INSERT INTO detalles_venta (venta_id, producto_id, cantidad, precio_unitario, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id entity.SaleID) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM ventas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List filtra por cliente y rango de días [From, To] inclusivo; más recientes primero.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter, limit, offset int) ([]*entity.Sale, error) {
	var from, to any
	if filter.From != nil {
		from = dayStart(*filter.From)
	}
	if filter.To != nil {
		to = dayStart(*filter.To).AddDate(0, 0, 1)
	}
	query := `SELECT ` + saleColumns + ` FROM ventas
		WHERE ($1::varchar IS NULL OR cliente_cedula = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, filter.ClientID, from, to, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListItems ítems de una venta (o de todas si saleID es nil) en orden de inserción.
func (r *SaleRepo) ListItems(ctx context.Context, saleID *entity.SaleID) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns+` FROM detalles_venta WHERE ($1::bigint IS NULL OR venta_id = $1) ORDER BY id`,
		saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *SaleRepo) DeleteItemsBySale(ctx context.Context, saleID entity.SaleID) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM detalles_venta WHERE venta_id = $1`, saleID)
	if err != nil {
		return 0, fmt.Errorf("delete sale items: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *SaleRepo) Delete(ctx context.Context, id entity.SaleID) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM ventas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s      entity.Sale
		client *string
	)
	if err := row.Scan(&s.ID, &client, &s.Total, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if client != nil {
		id := entity.ClientID(*client)
		s.ClientID = &id
	}
	return &s, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
