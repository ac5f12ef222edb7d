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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id::text, email, username, nombre, password_hash, rol, zona_acceso, is_active, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. El ID (UUID) lo asigna la aplicación.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO usuarios (id, email, username, nombre, password_hash, rol, zona_acceso, is_active, created_at, updated_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()), COALESCE($10, now()))
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		string(user.ID), user.Email, user.Username, user.Name, user.PasswordHash, user.Role, user.AccessZone,
		user.IsActive, timeArg(user.CreatedAt), timeArg(user.UpdatedAt),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return userWriteError("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id entity.UserID) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id::text = $1`, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza todos los campos editables, incluido el hash de contraseña.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE usuarios SET email = $2, username = $3, nombre = $4, password_hash = $5, rol = $6,
			zona_acceso = $7, is_active = $8, updated_at = now()
		WHERE id::text = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		string(user.ID), user.Email, user.Username, user.Name, user.PasswordHash, user.Role, user.AccessZone, user.IsActive,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return userWriteError("update user", err)
	}
	return nil
}

// List lista usuarios, más recientes primero.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+userColumns+` FROM usuarios ORDER BY created_at DESC, email LIMIT $1 OFFSET $2`,
		limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) Delete(ctx context.Context, id entity.UserID) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM usuarios WHERE id::text = $1`, string(id))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func userWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		if constraintName(err) == "usuarios_username_key" {
			return fmt.Errorf("%w: el username ya está en uso", domain.ErrDuplicate)
		}
		return domain.ErrEmailAlreadyExists
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u  entity.User
		id string
	)
	if err := row.Scan(&id, &u.Email, &u.Username, &u.Name, &u.PasswordHash, &u.Role, &u.AccessZone,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = entity.UserID(id)
	return &u, nil
}
