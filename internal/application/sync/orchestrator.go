package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
	"github.com/dinukasrimal/agency-sync-api/pkg/logger"
)

// RunState etapa del run de sincronización.
type RunState string

// Etapas: Idle → Fetching → Resolving → Writing → Advancing → Done.
// Error es terminal y solo se alcanza desde Fetching (o configuración).
// PartialError es una condición no terminal: el primer fallo por factura o
// línea la marca, pero el run sigue hasta Advancing igual.
const (
	StateIdle         RunState = "idle"
	StateFetching     RunState = "fetching"
	StateResolving    RunState = "resolving"
	StateWriting      RunState = "writing"
	StatePartialError RunState = "partial_error"
	StateAdvancing    RunState = "advancing"
	StateDone         RunState = "done"
	StateError        RunState = "error"
)

// MaxLoggedErrors limita cuántos mensajes de error por ítem viajan en el
// resultado y en el payload del SyncRunLog. El contador de errores no se capa.
const MaxLoggedErrors = 10

// TriggerInput describe una invocación del gateway.
type TriggerInput struct {
	Source     string         // "manual", "scheduled", ...
	Metadata   map[string]any // payload libre del llamador
	FullResync bool           // true = reemplazar el mirror completo y reconciliar todo
}

// RunResult es el resultado estructurado de un run. Toda invocación devuelve
// uno completo y bien formado: no hay salidas silenciosas ni colgadas.
type RunResult struct {
	Success           bool
	Message           string
	SyncedCount       int
	ErrorCount        int
	Errors            []string // ≤ MaxLoggedErrors
	UnmatchedPartners int
	UnmatchedProducts int
	Timestamp         time.Time
}

// Orchestrator compone fetch → resolución de partner → resolución de producto
// por línea → escritura en el ledger → avance del watermark → log del run.
// Ningún otro componente secuencia a los demás.
//
// No hay exclusión mutua entre runs concurrentes (manual + programado): la
// garantía de no duplicar la da el insert-on-conflict por línea del ledger,
// atómico en la BD.
type Orchestrator struct {
	source     InvoiceSource
	partners   *PartnerResolver
	products   *ProductResolver
	ledger     repository.InventoryTransactionRepository
	watermarks repository.WatermarkRepository
	runLogs    repository.SyncRunLogRepository
	mirrorTx   MirrorTxRunner
	log        *logger.Logger
	now        func() time.Time
}

// NewOrchestrator construye el orquestador con todas sus dependencias.
// now permite inyectar reloj en tests; nil usa time.Now.
func NewOrchestrator(
	source InvoiceSource,
	partners *PartnerResolver,
	products *ProductResolver,
	ledger repository.InventoryTransactionRepository,
	watermarks repository.WatermarkRepository,
	runLogs repository.SyncRunLogRepository,
	mirrorTx MirrorTxRunner,
	log *logger.Logger,
	now func() time.Time,
) *Orchestrator {
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		source:     source,
		partners:   partners,
		products:   products,
		ledger:     ledger,
		watermarks: watermarks,
		runLogs:    runLogs,
		mirrorTx:   mirrorTx,
		log:        log,
		now:        now,
	}
}

// Run ejecuta un ciclo completo de sincronización como una unidad lineal de
// trabajo. Los errores fatales (fetch, watermark ilegible) terminan el run sin
// tocar el watermark; los errores por factura o línea se cuentan y se sigue.
func (o *Orchestrator) Run(ctx context.Context, in TriggerInput) RunResult {
	fetchStart := o.now()
	o.transition(StateIdle, StateFetching, in.Source)

	invoices, err := o.fetch(ctx, in)
	if err != nil {
		o.transition(StateFetching, StateError, in.Source)
		return o.fatal(ctx, fetchStart, in, fmt.Sprintf("fetch de facturas externas falló: %v", err))
	}

	o.transition(StateFetching, StateResolving, in.Source)

	var (
		synced            int
		errorCount        int
		errs              []string
		unmatchedPartners int
		unmatchedProducts int
	)
	addError := func(msg string) {
		if errorCount == 0 {
			o.transition(StateWriting, StatePartialError, in.Source)
		}
		errorCount++
		if len(errs) < MaxLoggedErrors {
			errs = append(errs, msg)
		}
	}

	// Resolving y Writing se intercalan factura a factura.
	o.transition(StateResolving, StateWriting, in.Source)

	for _, inv := range invoices {
		if inv.ParseError != "" {
			addError(fmt.Sprintf("factura %s: payload malformado: %s", inv.ID, inv.ParseError))
			continue
		}

		partner, err := o.partners.Resolve(ctx, inv.PartnerName)
		if err != nil {
			addError(fmt.Sprintf("factura %s: resolución de partner: %v", inv.ID, err))
			continue
		}
		if partner == nil {
			unmatchedPartners++
			o.log.Debug().Str("invoice_id", inv.ID).Str("partner_name", inv.PartnerName).
				Msg("partner sin match, factura saltada")
			continue
		}

		batch, lineMisses, lineErrs := o.resolveLines(ctx, inv, partner)
		unmatchedProducts += lineMisses
		for _, e := range lineErrs {
			addError(e)
		}
		if len(batch) == 0 {
			continue
		}

		// Escritura serializada por factura; el troceo del lote lo hace el repo.
		inserted, err := o.ledger.InsertBatchIfAbsent(ctx, batch)
		if err != nil {
			addError(fmt.Sprintf("factura %s: escritura en ledger: %v", inv.ID, err))
			continue
		}
		synced += inserted
	}

	if errorCount > 0 {
		o.transition(StatePartialError, StateAdvancing, in.Source)
	} else {
		o.transition(StateWriting, StateAdvancing, in.Source)
	}

	// El watermark avanza al instante de inicio del fetch, nunca a "now":
	// lo creado durante el run se recoge en el siguiente.
	if err := o.watermarks.Set(ctx, entity.WatermarkExternalInvoices, fetchStart); err != nil {
		errorCount++
		if len(errs) < MaxLoggedErrors {
			errs = append(errs, fmt.Sprintf("avance de watermark: %v", err))
		}
	}

	res := RunResult{
		Success:           true,
		SyncedCount:       synced,
		ErrorCount:        errorCount,
		Errors:            errs,
		UnmatchedPartners: unmatchedPartners,
		UnmatchedProducts: unmatchedProducts,
		Timestamp:         o.now(),
	}
	if errorCount > 0 {
		res.Message = fmt.Sprintf("sincronización completada con %d errores: %d transacciones nuevas de %d facturas", errorCount, synced, len(invoices))
	} else {
		res.Message = fmt.Sprintf("sincronización completada: %d transacciones nuevas de %d facturas", synced, len(invoices))
	}

	o.writeRunLog(ctx, fetchStart, in, entity.SyncStatusSuccess, res)
	o.transition(StateAdvancing, StateDone, in.Source)
	o.log.Info().
		Int("synced", synced).
		Int("errors", errorCount).
		Int("unmatched_partners", unmatchedPartners).
		Int("unmatched_products", unmatchedProducts).
		Msg("run de sincronización terminado")
	return res
}

// fetch trae las facturas según el modo. En resync completo además reemplaza
// la tabla espejo en bloque dentro de una transacción; un fallo ahí es fatal,
// igual que el fetch: nunca se trabaja sobre una lista parcial.
func (o *Orchestrator) fetch(ctx context.Context, in TriggerInput) ([]*entity.ExternalInvoice, error) {
	if in.FullResync {
		invoices, err := o.source.FetchAllInvoices(ctx)
		if err != nil {
			return nil, err
		}
		if o.mirrorTx != nil {
			err = o.mirrorTx.Run(ctx, func(mirror repository.ExternalInvoiceMirrorRepository) error {
				return mirror.ReplaceAll(ctx, invoices)
			})
			if err != nil {
				return nil, fmt.Errorf("reemplazo del mirror: %w", err)
			}
		}
		return invoices, nil
	}

	wm, err := o.watermarks.Get(ctx, entity.WatermarkExternalInvoices)
	if err != nil {
		return nil, fmt.Errorf("lectura de watermark: %w", err)
	}
	since := time.Time{}
	if wm != nil {
		since = wm.Value
	}
	return o.source.FetchInvoicesSince(ctx, since)
}

// resolveLines resuelve producto y variante de cada línea con cantidad > 0 y
// arma las filas del ledger de la factura. Devuelve también cuántas líneas
// quedaron sin match y los errores por línea.
func (o *Orchestrator) resolveLines(ctx context.Context, inv *entity.ExternalInvoice, partner *entity.Partner) (batch []*entity.InventoryTransaction, misses int, errs []string) {
	for _, line := range inv.Lines {
		if !line.Stockable() {
			continue
		}
		res, err := o.products.Resolve(ctx, line.ProductName, line.ProductCategory)
		if err != nil {
			errs = append(errs, fmt.Sprintf("factura %s, producto %q: %v", inv.ID, line.ProductName, err))
			continue
		}
		if res == nil {
			misses++
			o.log.Debug().Str("invoice_id", inv.ID).Str("product_name", line.ProductName).
				Msg("producto sin match, línea saltada")
			continue
		}

		extID := inv.ID
		batch = append(batch, &entity.InventoryTransaction{
			ID:        uuid.New().String(),
			ProductID: res.Product.ID,
			Color:     res.Color,
			Size:      res.Size,
			Type:      entity.TransactionTypeExternalInvoice,
			// Convención vigente: la cantidad entregada se registra positiva
			// (entrega a la agencia = entrada de stock). Ver DESIGN.md.
			Quantity:          line.QtyDelivered,
			Reference:         "odoo:" + inv.ID,
			AgencyID:          partner.AgencyID,
			UserID:            partner.ID,
			ExternalInvoiceID: &extID,
			Notes:             fmt.Sprintf("import automático desde Odoo, score de match %d", res.Score),
			CreatedAt:         o.now(),
		})
	}
	return batch, misses, errs
}

// fatal arma el resultado de un error fatal y registra el run con status=error.
// El watermark queda intacto: el siguiente run reintenta el mismo rango.
func (o *Orchestrator) fatal(ctx context.Context, runAt time.Time, in TriggerInput, msg string) RunResult {
	res := RunResult{
		Success:    false,
		Message:    msg,
		ErrorCount: 1,
		Errors:     []string{msg},
		Timestamp:  o.now(),
	}
	o.log.Error().Str("trigger_source", in.Source).Msg(msg)
	o.writeRunLog(ctx, runAt, in, entity.SyncStatusError, res)
	return res
}

// runLogDetails es el payload estructurado del SyncRunLog.
type runLogDetails struct {
	TriggerSource     string   `json:"trigger_source"`
	FullResync        bool     `json:"full_resync,omitempty"`
	SyncedCount       int      `json:"synced_count"`
	ErrorCount        int      `json:"error_count"`
	Errors            []string `json:"errors,omitempty"`
	UnmatchedPartners int      `json:"unmatched_partners"`
	UnmatchedProducts int      `json:"unmatched_products"`
	DurationMs        int64    `json:"duration_ms"`
}

// writeRunLog persiste el resultado del run. Un fallo al escribir el log no
// altera el resultado: solo se reporta en el logger.
func (o *Orchestrator) writeRunLog(ctx context.Context, runAt time.Time, in TriggerInput, status string, res RunResult) {
	details, err := json.Marshal(runLogDetails{
		TriggerSource:     in.Source,
		FullResync:        in.FullResync,
		SyncedCount:       res.SyncedCount,
		ErrorCount:        res.ErrorCount,
		Errors:            res.Errors,
		UnmatchedPartners: res.UnmatchedPartners,
		UnmatchedProducts: res.UnmatchedProducts,
		DurationMs:        res.Timestamp.Sub(runAt).Milliseconds(),
	})
	if err != nil {
		details = []byte(`{}`)
	}
	entry := &entity.SyncRunLog{
		ID:            uuid.New().String(),
		RunAt:         runAt,
		Status:        status,
		RecordsSynced: res.SyncedCount,
		Message:       res.Message,
		Details:       details,
	}
	if err := o.runLogs.Create(ctx, entry); err != nil {
		o.log.Error().Err(err).Msg("no se pudo persistir el SyncRunLog")
	}
}

func (o *Orchestrator) transition(from, to RunState, source string) {
	o.log.Debug().
		Str("from", string(from)).
		Str("to", string(to)).
		Str("trigger_source", source).
		Msg("transición de estado del sync")
}
