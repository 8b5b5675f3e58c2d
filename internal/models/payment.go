package models

// Pago records a verified payment and the subject quota it purchased.
type Pago struct {
	ID                    int64   `db:"id" json:"id"`
	ProfesorID            int64   `db:"profesor_id" json:"profesor_id"`
	OrderID               string  `db:"order_id" json:"order_id"`
	CantidadAsignaturas   int     `db:"cantidad_asignaturas" json:"cantidad_asignaturas"`
	AsignaturasConsumidas int     `db:"asignaturas_consumidas" json:"asignaturas_consumidas"`
	Estado                string  `db:"estado" json:"estado"`
	Fecha                 *string `db:"fecha" json:"fecha,omitempty"`
}
