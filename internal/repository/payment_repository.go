package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aulaplan/aula-sync-api/internal/models"
)

// PaymentRepository persists verified payment orders.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// RecordVerified stores a completed order. Replays of an order id are
// ignored; the return value reports whether a new row was written.
func (r *PaymentRepository) RecordVerified(ctx context.Context, pago *models.Pago) (bool, error) {
	const query = `INSERT INTO pagos (profesor_id, order_id, cantidad_asignaturas, asignaturas_consumidas, estado, fecha)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		pago.ProfesorID, pago.OrderID, pago.CantidadAsignaturas, pago.AsignaturasConsumidas, pago.Estado, pago.Fecha)
	if err != nil {
		return false, fmt.Errorf("record pago: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record pago rows affected: %w", err)
	}
	return affected > 0, nil
}

// FindByOrderID fetches a recorded payment by provider order id.
func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Pago, error) {
	const query = `SELECT id, profesor_id, order_id, cantidad_asignaturas, asignaturas_consumidas, estado, fecha
		FROM pagos WHERE order_id = $1 LIMIT 1`
	var pago models.Pago
	if err := r.db.GetContext(ctx, &pago, query, orderID); err != nil {
		return nil, err
	}
	return &pago, nil
}
