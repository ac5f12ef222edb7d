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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `
	p.id, p.nombre, p.descripcion, p.precio, p.stock, p.imagen_url, p.categoria_id,
	COALESCE(c.nombre, ''), p.created_at, p.updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y completa ID, fechas y nombre de categoría.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		WITH ins AS (
			INSERT INTO productos (nombre, descripcion, precio, stock, imagen_url, categoria_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()), now())
			RETURNING id, categoria_id, created_at, updated_at
		)
		SELECT ins.id, ins.created_at, ins.updated_at, COALESCE(c.nombre, '')
		FROM ins LEFT JOIN categorias c ON c.id = ins.categoria_id`
	err := r.q.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Stock, product.ImageURL,
		product.CategoryID, timeArg(product.CreatedAt),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt, &product.CategoryName)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id entity.ProductID) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM productos p LEFT JOIN categorias c ON c.id = p.categoria_id
		WHERE p.id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. El stock solo cambia con IncrementStock/DecrementStock.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE productos SET nombre = $2, descripcion = $3, precio = $4, imagen_url = $5, categoria_id = $6, updated_at = now()
		WHERE id = $1
		RETURNING stock, created_at, updated_at,
			COALESCE((SELECT c.nombre FROM categorias c WHERE c.id = productos.categoria_id), '')`
	err := r.q.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.ImageURL, product.CategoryID,
	).Scan(&product.Stock, &product.CreatedAt, &product.UpdatedAt, &product.CategoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List lista productos (más recientes primero) con filtro opcional por categoría.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM productos p LEFT JOIN categorias c ON c.id = p.categoria_id
		WHERE ($1::bigint IS NULL OR p.categoria_id = $1)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, filter.CategoryID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID. Los ítems de venta históricos no se tocan.
func (r *ProductRepo) Delete(ctx context.Context, id entity.ProductID) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock descuenta con un UPDATE condicional; el stock nunca queda negativo.
// Si no se afectó ninguna fila se relee para distinguir producto inexistente de stock insuficiente.
func (r *ProductRepo) DecrementStock(ctx context.Context, id entity.ProductID, amount int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE productos SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2 RETURNING stock`,
		id, amount,
	).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}

	err = r.q.QueryRow(ctx, `SELECT stock FROM productos WHERE id = $1`, id).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &domain.ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return 0, fmt.Errorf("read stock: %w", err)
	}
	return 0, &domain.InsufficientStockError{ProductID: id, Available: stock, Requested: amount}
}

// IncrementStock suma amount sin condiciones.
func (r *ProductRepo) IncrementStock(ctx context.Context, id entity.ProductID, amount int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE productos SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		id, amount,
	).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &domain.ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return stock, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p     entity.Product
		catID *int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &catID,
		&p.CategoryName, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if catID != nil {
		id := entity.CategoryID(*catID)
		p.CategoryID = &id
	}
	return &p, nil
}
