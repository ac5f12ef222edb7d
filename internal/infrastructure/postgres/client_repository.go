package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `cedula, nombre, COALESCE(email, ''), telefono, ciudad, created_at, updated_at`

// ClientRepo clientes sobre PostgreSQL. Cédula es la llave; el email vacío se guarda como NULL.
type ClientRepo struct {
	q Querier
}

func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	query := `
		INSERT INTO clientes (cedula, nombre, email, telefono, ciudad, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, now(), now())
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query, client.Cedula, client.Name, client.Email, client.Phone, client.City).
		Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return clientWriteError("insert client", err)
	}
	return nil
}

func (r *ClientRepo) GetByCedula(ctx context.Context, cedula entity.ClientID) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clientes WHERE cedula = $1`, cedula))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *ClientRepo) Update(ctx context.Context, client *entity.Client) error {
	query := `
		UPDATE clientes SET nombre = $2, email = NULLIF($3, ''), telefono = $4, ciudad = $5, updated_at = now()
		WHERE cedula = $1
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query, client.Cedula, client.Name, client.Email, client.Phone, client.City).
		Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return clientWriteError("update client", err)
	}
	return nil
}

func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+clientColumns+` FROM clientes ORDER BY created_at DESC, cedula LIMIT $1 OFFSET $2`,
		limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina el cliente. Las ventas conservan la cédula como referencia histórica.
func (r *ClientRepo) Delete(ctx context.Context, cedula entity.ClientID) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM clientes WHERE cedula = $1`, cedula)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func clientWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		if constraintName(err) == "clientes_email_key" {
			return domain.ErrEmailAlreadyExists
		}
		return domain.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.Cedula, &c.Name, &c.Email, &c.Phone, &c.City, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
