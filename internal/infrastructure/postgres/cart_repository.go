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

var _ repository.CartRepository = (*CartRepo)(nil)

const cartColumns = `id, session_id, usuario_id, producto_id, cantidad, precio_unitario, created_at, updated_at`

// ownerMatch compara el dueño contra ($1 session_id, $2 usuario_id); NULL = NULL cuenta como igual.
const ownerMatch = `session_id IS NOT DISTINCT FROM $1 AND usuario_id IS NOT DISTINCT FROM $2`

// CartRepo líneas de carrito sobre PostgreSQL. Los índices únicos parciales garantizan una línea por (dueño, producto).
type CartRepo struct {
	q Querier
}

func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

func (r *CartRepo) Create(ctx context.Context, line *entity.CartLine) error {
	session, user := ownerArgs(line.Owner)
	query := `
		INSERT INTO carrito (session_id, usuario_id, producto_id, cantidad, precio_unitario, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, session, user, line.ProductID, line.Quantity, line.UnitPrice).
		Scan(&line.ID, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return &domain.ProductNotFoundError{ProductID: line.ProductID}
		}
		return fmt.Errorf("insert cart line: %w", err)
	}
	return nil
}

func (r *CartRepo) GetByID(ctx context.Context, id entity.CartLineID) (*entity.CartLine, error) {
	l, err := scanCartLine(r.q.QueryRow(ctx, `SELECT `+cartColumns+` FROM carrito WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	return l, nil
}

func (r *CartRepo) GetByOwnerAndProduct(ctx context.Context, owner entity.CartOwner, productID entity.ProductID) (*entity.CartLine, error) {
	session, user := ownerArgs(owner)
	l, err := scanCartLine(r.q.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM carrito WHERE `+ownerMatch+` AND producto_id = $3`,
		session, user, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart line by owner: %w", err)
	}
	return l, nil
}

func (r *CartRepo) UpdateQuantity(ctx context.Context, id entity.CartLineID, quantity int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE carrito SET cantidad = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepo) Delete(ctx context.Context, id entity.CartLineID) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM carrito WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOwner líneas del dueño, más recientes primero.
func (r *CartRepo) ListByOwner(ctx context.Context, owner entity.CartOwner) ([]*entity.CartLine, error) {
	session, user := ownerArgs(owner)
	rows, err := r.q.Query(ctx, `SELECT `+cartColumns+` FROM carrito WHERE `+ownerMatch+` ORDER BY id DESC`, session, user)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartLine
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *CartRepo) DeleteByOwner(ctx context.Context, owner entity.CartOwner) (int64, error) {
	session, user := ownerArgs(owner)
	cmd, err := r.q.Exec(ctx, `DELETE FROM carrito WHERE `+ownerMatch, session, user)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *CartRepo) DeleteSessionLinesBefore(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM carrito WHERE session_id IS NOT NULL AND usuario_id IS NULL AND updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge session carts: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ownerArgs devuelve (session_id, usuario_id) con NULL para el lado vacío.
func ownerArgs(o entity.CartOwner) (session, user *string) {
	if o.SessionID != "" {
		s := o.SessionID
		session = &s
	}
	if o.UserID != "" {
		u := string(o.UserID)
		user = &u
	}
	return session, user
}

func scanCartLine(row pgx.Row) (*entity.CartLine, error) {
	var (
		l             entity.CartLine
		session, user *string
	)
	if err := row.Scan(&l.ID, &session, &user, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if session != nil {
		l.Owner.SessionID = *session
	}
	if user != nil {
		l.Owner.UserID = entity.UserID(*user)
	}
	return &l, nil
}
