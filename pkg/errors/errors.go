package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. User-facing messages stay in
// Spanish because the mobile client displays them as-is.
var (
	ErrUnknownTable       = New("UNKNOWN_TABLE", http.StatusBadRequest, "Tabla no permitida.")
	ErrUnknownColumn      = New("UNKNOWN_COLUMN", http.StatusBadRequest, "Columna no registrada.")
	ErrEmptyBatch         = New("EMPTY_BATCH", http.StatusBadRequest, "No hay datos para sincronizar.")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Correo o contraseña incorrectos.")
	ErrEmailTaken         = New("EMAIL_TAKEN", http.StatusBadRequest, "El correo ya está registrado.")
	ErrRecoveryMismatch   = New("RECOVERY_MISMATCH", http.StatusNotFound, "Los datos de recuperación no coinciden.")
	ErrPaymentIncomplete  = New("PAYMENT_INCOMPLETE", http.StatusBadRequest, "El pago no está completado.")
	ErrPaymentProvider    = New("PAYMENT_PROVIDER", http.StatusInternalServerError, "Error al verificar el pago.")
	ErrSyncFailed         = New("SYNC_ERROR", http.StatusInternalServerError, "Error al sincronizar datos.")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
