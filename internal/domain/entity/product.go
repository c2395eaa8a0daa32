package entity

import "time"

// Product representa un producto del catálogo interno.
// El catálogo es propiedad de otro módulo; el pipeline de sincronización solo lo lee.
type Product struct {
	ID        string
	Name      string
	Category  string
	Colors    []string // colores configurados (puede estar vacío)
	Sizes     []string // tallas configuradas (puede estar vacío)
	CreatedAt time.Time
}

// DefaultVariant devuelve la variante representativa del producto: el primer
// color y la primera talla configurados, o el literal "Default" si no hay ninguno.
func (p *Product) DefaultVariant() (color, size string) {
	color, size = "Default", "Default"
	if len(p.Colors) > 0 {
		color = p.Colors[0]
	}
	if len(p.Sizes) > 0 {
		size = p.Sizes[0]
	}
	return color, size
}
