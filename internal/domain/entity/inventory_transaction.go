package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del ledger de inventario.
const (
	TransactionTypeGRN             = "GRN"              // recepción de catálogo
	TransactionTypeSale            = "SALE"             // venta
	TransactionTypeCustomerReturn  = "CUSTOMER_RETURN"  // devolución de cliente
	TransactionTypeCompanyReturn   = "COMPANY_RETURN"   // devolución a la empresa
	TransactionTypeAdjustment      = "ADJUSTMENT"       // ajuste manual
	TransactionTypeExternalInvoice = "EXTERNAL_INVOICE" // importado del ERP externo
)

// InventoryTransaction es una fila del ledger de inventario.
//
// El ledger es append-only: ninguna fila se actualiza ni se borra; las
// correcciones se registran como filas compensatorias. Para filas de tipo
// EXTERNAL_INVOICE la BD impone unicidad sobre
// (external_invoice_id, product_id, color, size): como máximo una fila por
// línea externa resuelta, incluso con reintentos o runs concurrentes.
type InventoryTransaction struct {
	ID                string
	ProductID         string
	Color             string
	Size              string
	Type              string
	Quantity          decimal.Decimal // positivo = entrada de stock, negativo = salida
	Reference         string          // documento origen (ej. "ODOO-INV/2024/0042")
	AgencyID          string
	UserID            string
	ExternalInvoiceID *string // solo para Type = EXTERNAL_INVOICE
	Notes             string
	CreatedAt         time.Time
}
