package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest carries the fields the app submits on first sign-up.
type RegisterRequest struct {
	Nombre             string `json:"nombre" validate:"required"`
	Apellido           string `json:"apellido"`
	Correo             string `json:"correo" validate:"required,email"`
	Telefono           string `json:"telefono" validate:"required"`
	Rol                string `json:"rol"`
	Contrasena         string `json:"contrasena" validate:"required,min=4"`
	PreguntaSeguridad1 string `json:"pregunta_seguridad_1" validate:"required"`
	RespuestaSeguridad1 string `json:"respuesta_seguridad_1" validate:"required"`
	PreguntaSeguridad2 string `json:"pregunta_seguridad_2" validate:"required"`
	RespuestaSeguridad2 string `json:"respuesta_seguridad_2" validate:"required"`
	PreguntaSeguridad3 string `json:"pregunta_seguridad_3" validate:"required"`
	RespuestaSeguridad3 string `json:"respuesta_seguridad_3" validate:"required"`
	EscuelaID          *int64 `json:"escuela_id"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Correo     string `json:"correo" validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required"`
}

// LoginResponse returns the profile plus a signed access token.
type LoginResponse struct {
	Usuario     *Usuario `json:"usuario"`
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
}

// RecoverPasswordRequest resets the credential after answering the three
// pre-registered security questions.
type RecoverPasswordRequest struct {
	Telefono            string `json:"telefono" validate:"required"`
	NuevaContrasena     string `json:"nueva_contrasena" validate:"required,min=4"`
	RespuestaSeguridad1 string `json:"respuesta_seguridad_1" validate:"required"`
	RespuestaSeguridad2 string `json:"respuesta_seguridad_2" validate:"required"`
	RespuestaSeguridad3 string `json:"respuesta_seguridad_3" validate:"required"`
}

// CheckUserRequest asks whether a phone number is already registered.
type CheckUserRequest struct {
	Telefono string `json:"telefono" validate:"required"`
}

// VerifyPaymentRequest mirrors the client payload for PayPal verification.
// Field names match what the app has always sent.
type VerifyPaymentRequest struct {
	OrderID             string `json:"orderID" validate:"required"`
	ProfesorID          int64  `json:"profesorId" validate:"required"`
	CantidadAsignaturas int    `json:"cantidadAsignaturas" validate:"gte=0"`
}

// JWTClaims are the access-token claims issued on login.
type JWTClaims struct {
	UserID int64  `json:"uid"`
	Correo string `json:"correo"`
	Rol    string `json:"rol,omitempty"`
	jwt.RegisteredClaims
}
