package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aulaplan/aula-sync-api/internal/models"
)

const usuarioColumns = `id, nombre, apellido, correo, telefono, rol, contrasena,
	pregunta_seguridad_1, respuesta_seguridad_1,
	pregunta_seguridad_2, respuesta_seguridad_2,
	pregunta_seguridad_3, respuesta_seguridad_3,
	intentos_recuperacion, escuela_id`

// UserRepository manages persistence for usuario records.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByCorreo fetches a user by email.
func (r *UserRepository) FindByCorreo(ctx context.Context, correo string) (*models.Usuario, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE correo = $1 LIMIT 1", usuarioColumns)
	var user models.Usuario
	if err := r.db.GetContext(ctx, &user, query, correo); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByTelefono fetches a user by phone number.
func (r *UserRepository) FindByTelefono(ctx context.Context, telefono string) (*models.Usuario, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE telefono = $1 LIMIT 1", usuarioColumns)
	var user models.Usuario
	if err := r.db.GetContext(ctx, &user, query, telefono); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByCorreo checks whether the email is already registered.
func (r *UserRepository) ExistsByCorreo(ctx context.Context, correo string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM usuarios WHERE correo = $1 LIMIT 1", correo)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check correo: %w", err)
	}
	return true, nil
}

// ExistsByTelefono checks whether the phone number is already registered.
func (r *UserRepository) ExistsByTelefono(ctx context.Context, telefono string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM usuarios WHERE telefono = $1 LIMIT 1", telefono)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check telefono: %w", err)
	}
	return true, nil
}

// Create inserts a new user and populates the generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.Usuario) error {
	const query = `INSERT INTO usuarios (nombre, apellido, correo, telefono, rol, contrasena,
		pregunta_seguridad_1, respuesta_seguridad_1,
		pregunta_seguridad_2, respuesta_seguridad_2,
		pregunta_seguridad_3, respuesta_seguridad_3,
		escuela_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		user.Nombre, user.Apellido, user.Correo, user.Telefono, user.Rol, user.Contrasena,
		user.PreguntaSeguridad1, user.RespuestaSeguridad1,
		user.PreguntaSeguridad2, user.RespuestaSeguridad2,
		user.PreguntaSeguridad3, user.RespuestaSeguridad3,
		user.EscuelaID,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create usuario: %w", err)
	}
	return nil
}

// UpdateContrasenaByTelefono overwrites the stored credential for the user
// owning the phone number.
func (r *UserRepository) UpdateContrasenaByTelefono(ctx context.Context, telefono, contrasena string) error {
	const query = `UPDATE usuarios SET contrasena = $2 WHERE telefono = $1`
	if _, err := r.db.ExecContext(ctx, query, telefono, contrasena); err != nil {
		return fmt.Errorf("update contrasena: %w", err)
	}
	return nil
}
