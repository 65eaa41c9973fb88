package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Planes válidos para User.
const (
	PlanStarter    = "starter"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

var emailFolder = cases.Lower(language.Und)

// User representa una cuenta del sistema; dueña de clientes, proyectos y registros de tiempo.
type User struct {
	ID           string
	FullName     string
	Email        string // siempre normalizado (ver NormalizeEmail)
	PasswordHash []byte // opaco; lo produce el hasher
	Plan         string
	CreatedAt    time.Time
}

// NormalizeEmail recorta espacios y pasa el email a minúsculas.
// La unicidad de emails se evalúa siempre sobre este valor.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

// IsValidPlan indica si plan es uno de los planes soportados.
func IsValidPlan(plan string) bool {
	switch plan {
	case PlanStarter, PlanPro, PlanEnterprise:
		return true
	}
	return false
}
