package entity

import "time"

// User actor que opera sobre el inventario. El rol y las sucursales
// asignadas determinan el AccessScope del caller.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string   // admin | manager | cashier
	Outlets      []string // sucursales asignadas (vacío para admin: ve todas)
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
