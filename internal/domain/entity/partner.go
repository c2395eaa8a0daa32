package entity

import "time"

// Partner representa la identidad interna de una contraparte externa
// (cliente/agencia del ERP). Propiedad del módulo de perfiles; solo lectura aquí.
type Partner struct {
	ID        string // ID del perfil interno
	Name      string // nombre visible, usado para el match exacto case-insensitive
	AgencyID  string // agencia propietaria
	CreatedAt time.Time
}
