package movement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

func newCoordinator(remote *fakeRemote, resyncer *fakeResyncer, notifier *fakeNotifier, policy PartialFailurePolicy) (*Cache, *Coordinator) {
	cache := NewCache()
	co := NewCoordinator(cache, remote, resyncer, notifier, policy, testLogger())
	return cache, co
}

func TestBulk_UnaSolaLlamadaParaTodaLaSeleccion(t *testing.T) {
	remote := &fakeRemote{result: Result{Success: true}}
	resyncer := &fakeResyncer{}
	_, co := newCoordinator(remote, resyncer, &fakeNotifier{}, PartialFailureReport)

	co.Select(testCompany, "m-1", "m-2", "m-3")
	err := co.ApplyBulk(context.Background(), testCompany, BulkActionStatus, workflow.StatusApproved)
	require.NoError(t, err)

	assert.Equal(t, []string{"BulkSetStatus"}, remote.calls, "nunca N llamadas individuales")
	require.Len(t, remote.bulkIDs, 1)
	assert.ElementsMatch(t, []string{"m-1", "m-2", "m-3"}, remote.bulkIDs[0])
	assert.Empty(t, co.Selected(testCompany), "la selección se limpia tras aplicar")
	assert.Equal(t, 1, resyncer.calls)
}

func TestBulk_SeleccionVaciaEsNoOp(t *testing.T) {
	remote := &fakeRemote{}
	resyncer := &fakeResyncer{}
	_, co := newCoordinator(remote, resyncer, &fakeNotifier{}, PartialFailureReport)

	require.NoError(t, co.ApplyBulk(context.Background(), testCompany, BulkActionDelete, ""))
	assert.Empty(t, remote.calls)
	assert.Equal(t, 0, resyncer.calls)
}

func TestBulk_FalloLimpiaYResincronizaIgual(t *testing.T) {
	remote := &fakeRemote{result: Result{Success: false, Error: "3 de 5 fallaron"}}
	resyncer := &fakeResyncer{list: []*entity.StockMovement{pendingMovement("m-9")}}
	notifier := &fakeNotifier{}
	cache, co := newCoordinator(remote, resyncer, notifier, PartialFailureReport)

	co.Select(testCompany, "m-1", "m-2")
	err := co.ApplyBulk(context.Background(), testCompany, BulkActionStatus, workflow.StatusCancelled)
	assert.NoError(t, err, "con política report el fallo no burbujea")

	assert.Empty(t, co.Selected(testCompany), "la selección se limpia incondicionalmente")
	assert.Equal(t, 1, resyncer.calls, "el estado real se recupera refetcheando")
	_, ok := cache.Get("m-9")
	assert.True(t, ok, "la caché quedó con la lista refetcheada")
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "3 de 5 fallaron")
}

func TestBulk_PoliticaAtomicaDevuelveElFallo(t *testing.T) {
	remote := &fakeRemote{result: Result{Success: false, Error: "rechazado"}}
	_, co := newCoordinator(remote, &fakeResyncer{}, &fakeNotifier{}, PartialFailureAtomic)

	co.Select(testCompany, "m-1")
	err := co.ApplyBulk(context.Background(), testCompany, BulkActionStatus, workflow.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)
	assert.Empty(t, co.Selected(testCompany))
}

func TestBulk_EstadoInvalidoRechazadoAntesDeLaRed(t *testing.T) {
	remote := &fakeRemote{}
	_, co := newCoordinator(remote, &fakeResyncer{}, &fakeNotifier{}, PartialFailureReport)

	co.Select(testCompany, "m-1")
	err := co.ApplyBulk(context.Background(), testCompany, BulkActionStatus, workflow.Status("archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, remote.calls)
	assert.NotEmpty(t, co.Selected(testCompany), "un rechazo local no consume la selección")
}

func TestBulk_DeleteUsaLaAccionBulk(t *testing.T) {
	remote := &fakeRemote{result: Result{Success: true}}
	notifier := &fakeNotifier{}
	_, co := newCoordinator(remote, &fakeResyncer{}, notifier, PartialFailureReport)

	co.Select(testCompany, "m-1", "m-2")
	require.NoError(t, co.ApplyBulk(context.Background(), testCompany, BulkActionDelete, ""))
	assert.Equal(t, []string{"BulkDelete"}, remote.calls)
	assert.Len(t, notifier.successes, 1)
}

func TestBulk_SelectDeselect(t *testing.T) {
	_, co := newCoordinator(&fakeRemote{}, &fakeResyncer{}, &fakeNotifier{}, PartialFailureReport)
	co.Select(testCompany, "a", "b", "b")
	co.Deselect(testCompany, "a")
	assert.ElementsMatch(t, []string{"b"}, co.Selected(testCompany))
}

func TestBulk_SeleccionesPorEmpresaNoSeMezclan(t *testing.T) {
	remote := &fakeRemote{result: Result{Success: true}}
	_, co := newCoordinator(remote, &fakeResyncer{}, &fakeNotifier{}, PartialFailureReport)

	// La empresa B selecciona entre el Select y el ApplyBulk de la empresa A:
	// su id no puede colarse en la llamada de A ni vaciarle la selección a B.
	co.Select("co-a", "a-1", "a-2")
	co.Select("co-b", "b-1")

	require.NoError(t, co.ApplyBulk(context.Background(), "co-a", BulkActionStatus, workflow.StatusApproved))
	require.NoError(t, co.ApplyBulk(context.Background(), "co-b", BulkActionStatus, workflow.StatusApproved))

	require.Len(t, remote.bulkIDs, 2, "cada empresa emite su propia llamada bulk")
	assert.ElementsMatch(t, []string{"a-1", "a-2"}, remote.bulkIDs[0])
	assert.ElementsMatch(t, []string{"b-1"}, remote.bulkIDs[1])
	assert.Equal(t, []string{"co-a", "co-b"}, remote.bulkCompanies)
}

func TestBulk_SeleccionDuranteLaOperacionNoSeCuela(t *testing.T) {
	remote := &fakeRemote{result: Result{Success: true}}
	_, co := newCoordinator(remote, &fakeResyncer{}, &fakeNotifier{}, PartialFailureReport)

	// La selección se consume al entrar: un Select concurrente de la misma
	// empresa arranca una selección nueva en lugar de sumarse a la en vuelo.
	remote.onCall = func() { co.Select(testCompany, "m-tarde") }

	co.Select(testCompany, "m-1")
	require.NoError(t, co.ApplyBulk(context.Background(), testCompany, BulkActionDelete, ""))

	require.Len(t, remote.bulkIDs, 1)
	assert.ElementsMatch(t, []string{"m-1"}, remote.bulkIDs[0])
	assert.ElementsMatch(t, []string{"m-tarde"}, co.Selected(testCompany),
		"el id tardío queda seleccionado para la próxima operación")
}

func TestBulk_AccionDesconocida(t *testing.T) {
	_, co := newCoordinator(&fakeRemote{}, &fakeResyncer{}, &fakeNotifier{}, PartialFailureReport)
	co.Select(testCompany, "m-1")
	err := co.ApplyBulk(context.Background(), testCompany, BulkAction("merge"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
