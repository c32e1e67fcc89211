package movement

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

const testCompany = "co-1"

// fakeRemote colaborador remoto programable: registra cada llamada y devuelve
// lo configurado. onCall permite inyectar efectos (ej. una petición concurrente
// que vuelve obsoleta a la continuación en vuelo).
type fakeRemote struct {
	calls  []string
	result Result
	err    error

	bulkIDs       [][]string
	bulkCompanies []string
	lastReason    string
	onCall        func()
}

func (f *fakeRemote) record(op string) {
	f.calls = append(f.calls, op)
	if f.onCall != nil {
		f.onCall()
	}
}

func (f *fakeRemote) SetPending(ctx context.Context, id string) (Result, error) {
	f.record("SetPending")
	return f.result, f.err
}

func (f *fakeRemote) SetApproved(ctx context.Context, id string) (Result, error) {
	f.record("SetApproved")
	return f.result, f.err
}

func (f *fakeRemote) SetCompleted(ctx context.Context, id string) (Result, error) {
	f.record("SetCompleted")
	return f.result, f.err
}

func (f *fakeRemote) SetCancelled(ctx context.Context, id, reason string) (Result, error) {
	f.record("SetCancelled")
	f.lastReason = reason
	return f.result, f.err
}

func (f *fakeRemote) Create(ctx context.Context, m *entity.StockMovement) (Result, error) {
	f.record("Create")
	return f.result, f.err
}

func (f *fakeRemote) Update(ctx context.Context, m *entity.StockMovement) (Result, error) {
	f.record("Update")
	return f.result, f.err
}

func (f *fakeRemote) Delete(ctx context.Context, id string) (Result, error) {
	f.record("Delete")
	return f.result, f.err
}

func (f *fakeRemote) BulkSetStatus(ctx context.Context, companyID string, ids []string, status workflow.Status) (Result, error) {
	f.record("BulkSetStatus")
	f.bulkCompanies = append(f.bulkCompanies, companyID)
	f.bulkIDs = append(f.bulkIDs, ids)
	return f.result, f.err
}

func (f *fakeRemote) BulkDelete(ctx context.Context, companyID string, ids []string) (Result, error) {
	f.record("BulkDelete")
	f.bulkCompanies = append(f.bulkCompanies, companyID)
	f.bulkIDs = append(f.bulkIDs, ids)
	return f.result, f.err
}

type fakeResyncer struct {
	list  []*entity.StockMovement
	err   error
	calls int
}

func (f *fakeResyncer) Resync(ctx context.Context, companyID string) ([]*entity.StockMovement, error) {
	f.calls++
	return f.list, f.err
}

type fakeNotifier struct {
	successes []string
	errors    []string
}

func (f *fakeNotifier) Success(companyID, message string) { f.successes = append(f.successes, message) }
func (f *fakeNotifier) Error(companyID, message string)   { f.errors = append(f.errors, message) }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func pendingMovement(id string) *entity.StockMovement {
	return &entity.StockMovement{
		ID:             id,
		CompanyID:      testCompany,
		Kind:           entity.MovementKindAdjustment,
		Status:         workflow.StatusPending,
		StoreID:        "st-1",
		ProductID:      "p-1",
		ActualQuantity: decimal.NewFromInt(5),
		Reason:         "conteo físico",
	}
}

func newEngine(remote *fakeRemote, resyncer *fakeResyncer, notifier *fakeNotifier) (*Cache, *Controller) {
	cache := NewCache()
	ctl := NewController(cache, remote, resyncer, notifier, testLogger())
	return cache, ctl
}

func TestApplyTransition_ExitoMergeaCanonicoYResincroniza(t *testing.T) {
	canonical := pendingMovement("m-1")
	canonical.Status = workflow.StatusApproved
	canonical.Notes = "aprobado por el servidor"

	remote := &fakeRemote{result: Result{Success: true, Data: canonical}}
	resynced := pendingMovement("m-1")
	resynced.Status = workflow.StatusApproved
	resyncer := &fakeResyncer{list: []*entity.StockMovement{resynced}}
	notifier := &fakeNotifier{}

	cache, ctl := newEngine(remote, resyncer, notifier)
	cache.Upsert(pendingMovement("m-1"))

	got, err := ctl.ApplyTransition(context.Background(), "m-1", workflow.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, got.Status)
	assert.Equal(t, "aprobado por el servidor", got.Notes)

	assert.Equal(t, []string{"SetApproved"}, remote.calls, "una sola acción remota")
	assert.Equal(t, 1, resyncer.calls, "resync completo tras confirmar")
	assert.Len(t, notifier.successes, 1)
	assert.Empty(t, notifier.errors)

	inCache, ok := cache.Get("m-1")
	require.True(t, ok)
	assert.Equal(t, workflow.StatusApproved, inCache.Status)
}

func TestApplyTransition_IlegalNoTocaCacheNiRed(t *testing.T) {
	remote := &fakeRemote{}
	cache, ctl := newEngine(remote, &fakeResyncer{}, &fakeNotifier{})

	done := pendingMovement("m-1")
	done.Status = workflow.StatusCompleted
	cache.Upsert(done)

	_, err := ctl.ApplyTransition(context.Background(), "m-1", workflow.StatusApproved, "")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Empty(t, remote.calls, "el rechazo local no llega a la red")

	inCache, _ := cache.Get("m-1")
	assert.Equal(t, workflow.StatusCompleted, inCache.Status)
}

func TestApplyTransition_DestinoDesconocidoEsIlegal(t *testing.T) {
	remote := &fakeRemote{}
	cache, ctl := newEngine(remote, &fakeResyncer{}, &fakeNotifier{})
	cache.Upsert(pendingMovement("m-1"))

	_, err := ctl.ApplyTransition(context.Background(), "m-1", workflow.Status("archived"), "")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Empty(t, remote.calls)
}

func TestApplyTransition_NoEncontrado(t *testing.T) {
	_, ctl := newEngine(&fakeRemote{}, &fakeResyncer{}, &fakeNotifier{})
	_, err := ctl.ApplyTransition(context.Background(), "no-existe", workflow.StatusApproved, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyTransition_FalloRemotoHaceRollbackExacto(t *testing.T) {
	remote := &fakeRemote{result: Result{Success: false, Error: "rechazado por stock insuficiente"}}
	notifier := &fakeNotifier{}
	cache, ctl := newEngine(remote, &fakeResyncer{}, notifier)

	original := pendingMovement("m-1")
	original.Notes = "nota previa"
	cache.Upsert(original)

	_, err := ctl.ApplyTransition(context.Background(), "m-1", workflow.StatusApproved, "")
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)
	assert.Contains(t, err.Error(), "stock insuficiente")

	inCache, _ := cache.Get("m-1")
	assert.Equal(t, workflow.StatusPending, inCache.Status, "rollback al estado del snapshot")
	assert.Equal(t, "nota previa", inCache.Notes)
	assert.Equal(t, "conteo físico", inCache.Reason)

	require.Len(t, notifier.errors, 1)
	assert.Empty(t, notifier.successes)
}

func TestApplyTransition_ErrorDeTransporteTambienRevierte(t *testing.T) {
	remote := &fakeRemote{err: errors.New("connection reset")}
	cache, ctl := newEngine(remote, &fakeResyncer{}, &fakeNotifier{})
	cache.Upsert(pendingMovement("m-1"))

	_, err := ctl.ApplyTransition(context.Background(), "m-1", workflow.StatusCompleted, "")
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)

	inCache, _ := cache.Get("m-1")
	assert.Equal(t, workflow.StatusPending, inCache.Status)
}

func TestApplyTransition_CanceladoPropagaMotivo(t *testing.T) {
	canonical := pendingMovement("m-1")
	canonical.Status = workflow.StatusCancelled
	canonical.RejectionReason = "pedido duplicado"

	remote := &fakeRemote{result: Result{Success: true, Data: canonical}}
	cache, ctl := newEngine(remote, &fakeResyncer{}, &fakeNotifier{})
	cache.Upsert(pendingMovement("m-1"))

	got, err := ctl.ApplyTransition(context.Background(), "m-1", workflow.StatusCancelled, "pedido duplicado")
	require.NoError(t, err)
	assert.Equal(t, "pedido duplicado", remote.lastReason)
	assert.Equal(t, "pedido duplicado", got.RejectionReason)
}

func TestApplyTransition_ContinuacionObsoletaNoAplica(t *testing.T) {
	// Mientras la primera petición está en vuelo, una segunda toma la entidad
	// (Begin bumpea la secuencia). El rollback tardío de la primera no debe
	// pisar el estado de la segunda.
	var cache *Cache
	remote := &fakeRemote{result: Result{Success: false, Error: "lento y fallido"}}
	remote.onCall = func() {
		cache.Begin("m-1", workflow.StatusCompleted, "")
	}
	notifier := &fakeNotifier{}
	cache = NewCache()
	ctl := NewController(cache, remote, &fakeResyncer{}, notifier, testLogger())
	cache.Upsert(pendingMovement("m-1"))

	_, err := ctl.ApplyTransition(context.Background(), "m-1", workflow.StatusApproved, "")
	assert.ErrorIs(t, err, domain.ErrStaleRequest)

	inCache, _ := cache.Get("m-1")
	assert.Equal(t, workflow.StatusCompleted, inCache.Status,
		"la petición más reciente conserva la entidad")
	assert.Empty(t, notifier.errors, "una continuación obsoleta no notifica")
}

func TestApplyTransition_ResyncFallidoNoInvalidaElExito(t *testing.T) {
	canonical := pendingMovement("m-1")
	canonical.Status = workflow.StatusApproved

	remote := &fakeRemote{result: Result{Success: true, Data: canonical}}
	resyncer := &fakeResyncer{err: errors.New("timeout")}
	cache, ctl := newEngine(remote, resyncer, &fakeNotifier{})
	cache.Upsert(pendingMovement("m-1"))

	got, err := ctl.ApplyTransition(context.Background(), "m-1", workflow.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, got.Status)
}

func TestDispatch_DestinoSinAccionMapeada(t *testing.T) {
	_, ctl := newEngine(&fakeRemote{}, &fakeResyncer{}, &fakeNotifier{})
	_, err := ctl.dispatch(context.Background(), "m-1", workflow.Status("archived"), "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedTransition)
}
