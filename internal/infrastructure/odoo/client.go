package odoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dinukasrimal/agency-sync-api/internal/application/sync"
	"github.com/dinukasrimal/agency-sync-api/internal/domain"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/pkg/config"
)

// Verificar en tiempo de compilación que Client implementa InvoiceSource.
var _ sync.InvoiceSource = (*Client)(nil)

const invoicesPath = "/api/v1/invoices"

// Formatos de fecha que devuelve el mirror según la versión de Odoo.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Client adaptador HTTP de solo lectura contra el mirror de facturas del ERP
// externo (Odoo). Usa net/http de la librería estándar; no requiere SDK.
//
// Contrato: el cliente jamás muta la fuente. Fuente inalcanzable o payload
// top-level malformado son errores fatales del run; una factura individual
// con líneas malformadas se marca con ParseError y sigue siendo recuperable.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient construye el adaptador con la configuración del mirror.
func NewClient(cfg config.OdooConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// FetchInvoicesSince devuelve las facturas con fecha >= since, de la más
// antigua a la más reciente. since en cero trae todo el histórico.
func (c *Client) FetchInvoicesSince(ctx context.Context, since time.Time) ([]*entity.ExternalInvoice, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	return c.fetch(ctx, q)
}

// FetchAllInvoices devuelve todas las facturas del mirror (resync completo).
func (c *Client) FetchAllInvoices(ctx context.Context) ([]*entity.ExternalInvoice, error) {
	return c.fetch(ctx, url.Values{})
}

func (c *Client) fetch(ctx context.Context, q url.Values) ([]*entity.ExternalInvoice, error) {
	endpoint := c.baseURL + invoicesPath
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("construir request al mirror: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrSourceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: el mirror respondió %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var envelope invoiceEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	invoices := make([]*entity.ExternalInvoice, 0, len(envelope.Invoices))
	for _, p := range envelope.Invoices {
		invoices = append(invoices, toEntity(p))
	}

	// Orden garantizado para el orquestador: más antigua primero, empates por ID.
	sort.Slice(invoices, func(i, j int) bool {
		if invoices[i].InvoiceDate.Equal(invoices[j].InvoiceDate) {
			return invoices[i].ID < invoices[j].ID
		}
		return invoices[i].InvoiceDate.Before(invoices[j].InvoiceDate)
	})
	return invoices, nil
}

// toEntity valida y convierte un payload del mirror a la forma fija interna.
// Cualquier defecto por factura (fecha o líneas) termina en ParseError.
func toEntity(p invoicePayload) *entity.ExternalInvoice {
	inv := &entity.ExternalInvoice{
		ID:          parseID(p.ID),
		PartnerName: p.PartnerName,
	}

	date, err := parseDate(p.DateInvoice)
	if err != nil {
		inv.ParseError = fmt.Sprintf("fecha inválida %q", p.DateInvoice)
		return inv
	}
	inv.InvoiceDate = date

	lines, err := parseLines(p.OrderLines)
	if err != nil {
		inv.ParseError = err.Error()
		return inv
	}
	inv.Lines = lines
	return inv
}

// parseID normaliza el identificador externo: el mirror lo devuelve como
// string en versiones nuevas y como número en las viejas.
func parseID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.TrimSpace(string(raw))
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha desconocido")
}

// parseLines acepta las dos formas en que llega order_lines: array JSON o
// string con un array JSON serializado dentro. Todo lo demás es malformado.
func parseLines(raw json.RawMessage) ([]entity.ExternalInvoiceLine, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	data := []byte(raw)
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		data = []byte(asString)
	}

	var payload []linePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("order_lines no es un array de líneas: %v", err)
	}

	lines := make([]entity.ExternalInvoiceLine, 0, len(payload))
	for _, l := range payload {
		lines = append(lines, entity.ExternalInvoiceLine{
			ProductName:     l.ProductName,
			ProductCategory: l.ProductCategory,
			QtyDelivered:    l.QtyDelivered,
			PriceUnit:       l.PriceUnit,
		})
	}
	return lines, nil
}
