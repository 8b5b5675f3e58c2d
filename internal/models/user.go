package models

// Usuario is a row of the usuarios table. Optional columns are pointers so
// device-synced rows with NULLs scan cleanly. The credential hash never
// leaves the server.
type Usuario struct {
	ID                   int64   `db:"id" json:"id"`
	Nombre               string  `db:"nombre" json:"nombre"`
	Apellido             *string `db:"apellido" json:"apellido,omitempty"`
	Correo               string  `db:"correo" json:"correo"`
	Telefono             *string `db:"telefono" json:"telefono,omitempty"`
	Rol                  *string `db:"rol" json:"rol,omitempty"`
	Contrasena           string  `db:"contrasena" json:"-"`
	PreguntaSeguridad1   *string `db:"pregunta_seguridad_1" json:"pregunta_seguridad_1,omitempty"`
	RespuestaSeguridad1  *string `db:"respuesta_seguridad_1" json:"-"`
	PreguntaSeguridad2   *string `db:"pregunta_seguridad_2" json:"pregunta_seguridad_2,omitempty"`
	RespuestaSeguridad2  *string `db:"respuesta_seguridad_2" json:"-"`
	PreguntaSeguridad3   *string `db:"pregunta_seguridad_3" json:"pregunta_seguridad_3,omitempty"`
	RespuestaSeguridad3  *string `db:"respuesta_seguridad_3" json:"-"`
	IntentosRecuperacion *int    `db:"intentos_recuperacion" json:"intentos_recuperacion,omitempty"`
	EscuelaID            *int64  `db:"escuela_id" json:"escuela_id,omitempty"`
}
