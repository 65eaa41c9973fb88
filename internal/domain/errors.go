package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrEmailAlreadyExists = errors.New("el usuario ya existe")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthorized       = errors.New("no autorizado")

	// ErrBackendUnavailable marca fallas de conectividad/timeout del store primario.
	// Solo el paquete fallback lo consume; nunca llega al caller.
	ErrBackendUnavailable = errors.New("backend no disponible")
)

// ValidationError describe una entrada inválida con un mensaje apto para el cliente.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Unavailable envuelve err como ErrBackendUnavailable conservando la causa.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
}

// IsUnavailable indica si err corresponde a una caída del backend.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}
