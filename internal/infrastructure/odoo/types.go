package odoo

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ── Estructuras del payload del mirror de facturas ────────────────────────────

// invoiceEnvelope es la respuesta top-level del mirror.
type invoiceEnvelope struct {
	Invoices []invoicePayload `json:"invoices"`
}

// invoicePayload es una factura tal como la expone el mirror. El ID puede
// llegar como string o como número; order_lines puede llegar como array o como
// string JSON serializado (se parsea y valida en este adaptador, nunca después).
type invoicePayload struct {
	ID          json.RawMessage `json:"id"`
	PartnerName string          `json:"partner_name"`
	DateInvoice string          `json:"date_invoice"`
	OrderLines  json.RawMessage `json:"order_lines"`
}

// linePayload es una línea de factura del mirror.
type linePayload struct {
	ProductName     string          `json:"product_name"`
	ProductCategory string          `json:"product_category"`
	QtyDelivered    decimal.Decimal `json:"qty_delivered"`
	PriceUnit       decimal.Decimal `json:"price_unit"`
}
