package auth

import (
	"time"

	"github.com/jhoicas/clocwise-api/pkg/jwt"
)

// PasswordHasher puerto de hashing de contraseñas. El hash es opaco para el dominio.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(password string, hash []byte) bool
}

// TokenIssuer puerto de emisión y verificación de tokens de acceso.
type TokenIssuer interface {
	Issue(userID, email string, ttl time.Duration) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

// Principal identidad autenticada extraída de un token válido.
type Principal struct {
	UserID string
	Email  string
}
