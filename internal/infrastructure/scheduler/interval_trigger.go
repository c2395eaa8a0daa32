package scheduler

import (
	"context"
	stdsync "sync"
	"time"

	appsync "github.com/dinukasrimal/agency-sync-api/internal/application/sync"
	"github.com/dinukasrimal/agency-sync-api/pkg/logger"
)

// SyncRunner es lo que el trigger necesita del orquestador.
type SyncRunner interface {
	Run(ctx context.Context, in appsync.TriggerInput) appsync.RunResult
}

// IntervalTrigger dispara un run de sincronización cada intervalo fijo.
// Equivale al cron job del despliegue original; no hay exclusión mutua con
// los triggers manuales: la idempotencia por línea del ledger lo permite.
type IntervalTrigger struct {
	interval time.Duration
	runner   SyncRunner
	log      *logger.Logger

	mu      stdsync.Mutex
	cancel  context.CancelFunc
	wg      stdsync.WaitGroup
	running bool
}

// NewIntervalTrigger construye el trigger. interval <= 0 deja el trigger
// deshabilitado (Start no hace nada).
func NewIntervalTrigger(interval time.Duration, runner SyncRunner, log *logger.Logger) *IntervalTrigger {
	return &IntervalTrigger{interval: interval, runner: runner, log: log}
}

// Start lanza el loop en una goroutine propia. Idempotente.
func (t *IntervalTrigger) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.interval <= 0 {
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.running = true

	t.wg.Add(1)
	go t.loop(ctx)
	t.log.Info().Dur("interval", t.interval).Msg("scheduler de sincronización iniciado")
}

// Stop detiene el loop y espera a que el run en curso termine.
func (t *IntervalTrigger) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.cancel()
	t.running = false
	t.mu.Unlock()

	t.wg.Wait()
	t.log.Info().Msg("scheduler de sincronización detenido")
}

func (t *IntervalTrigger) loop(ctx context.Context) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := t.runner.Run(ctx, appsync.TriggerInput{Source: "scheduled"})
			if !res.Success {
				t.log.Error().Str("message", res.Message).Msg("run programado falló")
			}
		}
	}
}
