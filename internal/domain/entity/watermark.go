package entity

import "time"

// WatermarkExternalInvoices es la clave fija del watermark del sync de facturas externas.
const WatermarkExternalInvoices = "external_invoice_sync"

// Watermark marca hasta qué timestamp se consumió por completo la fuente externa.
// Solo se avanza cuando un run termina sin error fatal de fetch, y siempre al
// instante en que comenzó el fetch (nunca "now"), para no perder registros
// creados durante el run.
type Watermark struct {
	Key       string
	Value     time.Time
	UpdatedAt time.Time
}
