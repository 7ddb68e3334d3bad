package entity

import "time"

// Customer representa un cliente (facturación). Solo Name es obligatorio.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
