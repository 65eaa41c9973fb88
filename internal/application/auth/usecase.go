package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

// DefaultTokenTTL vigencia de los tokens emitidos en registro y login.
const DefaultTokenTTL = 30 * 24 * time.Hour

// MaxPasswordBytes límite de bcrypt; se mide en bytes, no en caracteres.
const MaxPasswordBytes = 72

// AuthUseCase casos de uso de autenticación: registro, login y verificación de token.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	ttl    time.Duration

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth. ttl <= 0 usa DefaultTokenTTL.
func NewAuthUseCase(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, ttl time.Duration) *AuthUseCase {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthUseCase{users: users, hasher: hasher, tokens: tokens, ttl: ttl}
}

// Register crea un usuario con plan starter y devuelve un token de acceso.
// Devuelve ErrEmailAlreadyExists si el email (sin distinguir mayúsculas) ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Password) == "" {
		in.Password = ""
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, domain.NewValidationError("password", "no puede superar 72 bytes")
	}
	email := entity.NormalizeEmail(in.Email)

	_, err := uc.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailAlreadyExists
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entity.User{
		FullName:     in.FullName,
		Email:        email,
		PasswordHash: hash,
		Plan:         entity.PlanStarter,
	}
	// El índice único (o el lock del store en memoria) decide si otro registro ganó la carrera.
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.respond("Usuario creado correctamente", user)
}

// Login verifica email y password y emite un token nuevo. Usuario inexistente
// y password incorrecto devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	user, err := uc.users.FindByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Igualar el costo de la respuesta con el de un usuario existente.
			uc.hasher.Verify(in.Password, uc.dummy())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !uc.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.respond("Sesión iniciada correctamente", user)
}

// Authenticate valida un token y devuelve la identidad que transporta.
func (uc *AuthUseCase) Authenticate(_ context.Context, token string) (*Principal, error) {
	claims, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return &Principal{UserID: claims.UserID, Email: claims.Email}, nil
}

func (uc *AuthUseCase) respond(message string, user *entity.User) (*dto.AuthResponse, error) {
	token, err := uc.tokens.Issue(user.ID, user.Email, uc.ttl)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{
		Message: message,
		Token:   token,
		User:    ToUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) dummy() []byte {
	uc.dummyOnce.Do(func() {
		h, err := uc.hasher.Hash("clocwise-dummy-password")
		if err == nil {
			uc.dummyHash = h
		}
	})
	return uc.dummyHash
}

// ToUserResponse convierte la entidad a su representación pública.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Plan:      u.Plan,
		CreatedAt: u.CreatedAt,
	}
}
