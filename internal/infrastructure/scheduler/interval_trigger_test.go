package scheduler_test

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/dinukasrimal/agency-sync-api/internal/application/sync"
	"github.com/dinukasrimal/agency-sync-api/internal/infrastructure/scheduler"
	"github.com/dinukasrimal/agency-sync-api/pkg/logger"
)

// countingRunner cuenta invocaciones y señala la primera por canal.
type countingRunner struct {
	mu      stdsync.Mutex
	calls   int
	sources []string
	first   chan struct{}
	once    stdsync.Once
}

func newCountingRunner() *countingRunner {
	return &countingRunner{first: make(chan struct{})}
}

func (r *countingRunner) Run(ctx context.Context, in appsync.TriggerInput) appsync.RunResult {
	r.mu.Lock()
	r.calls++
	r.sources = append(r.sources, in.Source)
	r.mu.Unlock()
	r.once.Do(func() { close(r.first) })
	return appsync.RunResult{Success: true}
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func nopLogger() *logger.Logger {
	return logger.FromZerolog(zerolog.Nop())
}

func TestIntervalTrigger_DisparaRunsProgramados(t *testing.T) {
	runner := newCountingRunner()
	trig := scheduler.NewIntervalTrigger(5*time.Millisecond, runner, nopLogger())

	trig.Start(context.Background())
	defer trig.Stop()

	select {
	case <-runner.first:
	case <-time.After(2 * time.Second):
		t.Fatal("el scheduler nunca disparó un run")
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	require.NotEmpty(t, runner.sources)
	assert.Equal(t, "scheduled", runner.sources[0])
}

func TestIntervalTrigger_StopDetieneElLoop(t *testing.T) {
	runner := newCountingRunner()
	trig := scheduler.NewIntervalTrigger(5*time.Millisecond, runner, nopLogger())

	trig.Start(context.Background())
	select {
	case <-runner.first:
	case <-time.After(2 * time.Second):
		t.Fatal("el scheduler nunca disparó un run")
	}
	trig.Stop()

	after := runner.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runner.count(), "tras Stop no debe haber runs nuevos")
}

// Con intervalo cero el trigger queda deshabilitado: Start y Stop son no-ops.
func TestIntervalTrigger_IntervaloCeroDeshabilita(t *testing.T) {
	runner := newCountingRunner()
	trig := scheduler.NewIntervalTrigger(0, runner, nopLogger())

	trig.Start(context.Background())
	trig.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, runner.count())
}

func TestIntervalTrigger_StartEsIdempotente(t *testing.T) {
	runner := newCountingRunner()
	trig := scheduler.NewIntervalTrigger(time.Hour, runner, nopLogger())

	trig.Start(context.Background())
	trig.Start(context.Background())
	trig.Stop()
	trig.Stop()

	assert.Equal(t, 0, runner.count())
}
