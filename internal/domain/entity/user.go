package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// User representa un usuario del sistema. La emisión de sesiones está fuera de este servicio;
// el usuario autenticado llega por token y se usa para sellar Bill.UserID.
type User struct {
	ID           string
	Email        string // único
	PasswordHash string // bcrypt hash
	Name         string
	Role         string
	Image        string
	CompanyName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
