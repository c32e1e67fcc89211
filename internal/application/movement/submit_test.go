package movement

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(*entity.Product) error { return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) GetBySKU(string, string) (*entity.Product, error) { return nil, nil }
func (f *fakeProductRepo) Update(*entity.Product) error                     { return nil }
func (f *fakeProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Delete(string) error { return nil }

type fakeStoreRepo struct {
	stores map[string]*entity.Store
}

func (f *fakeStoreRepo) Create(*entity.Store) error { return nil }
func (f *fakeStoreRepo) GetByID(id string) (*entity.Store, error) {
	return f.stores[id], nil
}
func (f *fakeStoreRepo) Update(*entity.Store) error { return nil }
func (f *fakeStoreRepo) ListByCompany(string, int, int) ([]*entity.Store, error) {
	return nil, nil
}
func (f *fakeStoreRepo) Delete(string) error { return nil }

// createEcho hace que el fake remoto devuelva el movimiento recibido con id
// asignado, como hace el servicio real en la creación.
type createEcho struct {
	fakeRemote
	nextID string
}

func (f *createEcho) Create(ctx context.Context, m *entity.StockMovement) (Result, error) {
	f.record("Create")
	created := *m
	created.ID = f.nextID
	return Result{Success: true, Data: &created}, nil
}

func submitFixture() (*fakeProductRepo, *fakeStoreRepo) {
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"p-1": {
			ID:        "p-1",
			CompanyID: testCompany,
			SKU:       "SKU-1",
			Quantity:  decimal.NewFromInt(100),
			StoreStocks: json.RawMessage(`[
				{"store": "st-1", "quantity": "40"}
			]`),
		},
	}}
	stores := &fakeStoreRepo{stores: map[string]*entity.Store{
		"st-1": {ID: "st-1", CompanyID: testCompany, Name: "Principal"},
		"st-2": {ID: "st-2", CompanyID: testCompany, Name: "Sucursal"},
		"st-x": {ID: "st-x", CompanyID: "co-otra", Name: "Ajena"},
	}}
	return products, stores
}

func newSubmit(remote RemoteActions) (*Cache, *SubmitUseCase) {
	products, stores := submitFixture()
	cache := NewCache()
	return cache, NewSubmitUseCase(products, stores, remote, cache)
}

func TestCreateAdjustment_ResuelveYPersiste(t *testing.T) {
	remote := &createEcho{nextID: "m-nuevo"}
	cache, uc := newSubmit(remote)

	m, err := uc.CreateAdjustment(context.Background(), testCompany, "u-1", AdjustmentInput{
		StoreID:        "st-1",
		ProductID:      "p-1",
		ActualQuantity: decimal.NewFromInt(35),
		Reason:         "conteo físico",
	})
	require.NoError(t, err)

	assert.Equal(t, "m-nuevo", m.ID, "el id lo asigna el servicio")
	assert.Equal(t, workflow.StatusPending, m.Status)
	assert.True(t, m.PreviousQuantity.Equal(decimal.NewFromInt(40)), "previa del stock por tienda")
	assert.True(t, m.Difference.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, entity.MovementDecrease, m.MovementClass)
	assert.Equal(t, "SKU-1", m.SKU)

	_, ok := cache.Get("m-nuevo")
	assert.True(t, ok, "el canónico entra en caché")
}

func TestCreateAdjustment_DiferenciaSinMotivoRechazadaSinRed(t *testing.T) {
	remote := &createEcho{nextID: "m-nuevo"}
	_, uc := newSubmit(remote)

	_, err := uc.CreateAdjustment(context.Background(), testCompany, "u-1", AdjustmentInput{
		StoreID:        "st-1",
		ProductID:      "p-1",
		ActualQuantity: decimal.NewFromInt(35),
		Reason:         "   ",
	})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
	assert.Empty(t, remote.calls, "la regla se impone antes de cualquier llamada remota")
}

func TestCreateAdjustment_SinCambioNoExigeMotivo(t *testing.T) {
	remote := &createEcho{nextID: "m-nuevo"}
	_, uc := newSubmit(remote)

	m, err := uc.CreateAdjustment(context.Background(), testCompany, "u-1", AdjustmentInput{
		StoreID:        "st-1",
		ProductID:      "p-1",
		ActualQuantity: decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.True(t, m.Difference.IsZero())
	assert.Equal(t, entity.MovementNoChange, m.MovementClass)
}

func TestCreateAdjustment_CallerQuantityEntraEnLaPrecedencia(t *testing.T) {
	remote := &createEcho{nextID: "m-nuevo"}
	_, uc := newSubmit(remote)

	caller := decimal.NewFromInt(70)
	m, err := uc.CreateAdjustment(context.Background(), testCompany, "u-1", AdjustmentInput{
		StoreID:        "st-2", // sin entrada de stock para esta tienda
		ProductID:      "p-1",
		ActualQuantity: decimal.NewFromInt(70),
		CallerQuantity: &caller,
	})
	require.NoError(t, err)
	assert.True(t, m.PreviousQuantity.Equal(caller))
}

func TestCreateAdjustment_ProductoDeOtraEmpresa(t *testing.T) {
	remote := &createEcho{nextID: "m-nuevo"}
	_, uc := newSubmit(remote)

	_, err := uc.CreateAdjustment(context.Background(), "co-otra", "u-1", AdjustmentInput{
		StoreID:        "st-1",
		ProductID:      "p-1",
		ActualQuantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTransfer_TiendasIgualesRechazado(t *testing.T) {
	remote := &createEcho{nextID: "m-t"}
	_, uc := newSubmit(remote)

	_, err := uc.CreateTransfer(context.Background(), testCompany, "u-1", TransferInput{
		FromStoreID: "st-1",
		ToStoreID:   "st-1",
		ProductID:   "p-1",
		Quantity:    decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, remote.calls)
}

func TestCreateTransfer_CantidadNoPositivaRechazada(t *testing.T) {
	remote := &createEcho{nextID: "m-t"}
	_, uc := newSubmit(remote)

	for _, qty := range []int64{0, -3} {
		_, err := uc.CreateTransfer(context.Background(), testCompany, "u-1", TransferInput{
			FromStoreID: "st-1",
			ToStoreID:   "st-2",
			ProductID:   "p-1",
			Quantity:    decimal.NewFromInt(qty),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "qty=%d", qty)
	}
}

func TestCreateTransfer_ResuelveEnTiendaDeOrigen(t *testing.T) {
	remote := &createEcho{nextID: "m-t"}
	_, uc := newSubmit(remote)

	m, err := uc.CreateTransfer(context.Background(), testCompany, "u-1", TransferInput{
		FromStoreID: "st-1",
		ToStoreID:   "st-2",
		ProductID:   "p-1",
		Quantity:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindTransfer, m.Kind)
	assert.True(t, m.PreviousQuantity.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "st-1", m.FromStoreID)
	assert.Equal(t, "st-2", m.ToStoreID)
}

func TestCreateTransfer_DestinoDeOtraEmpresa(t *testing.T) {
	remote := &createEcho{nextID: "m-t"}
	_, uc := newSubmit(remote)

	_, err := uc.CreateTransfer(context.Background(), testCompany, "u-1", TransferInput{
		FromStoreID: "st-1",
		ToStoreID:   "st-x",
		ProductID:   "p-1",
		Quantity:    decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAdjustment_SoloEnPending(t *testing.T) {
	remote := &createEcho{nextID: "m-1"}
	cache, uc := newSubmit(remote)

	approved := pendingMovement("m-1")
	approved.Status = workflow.StatusApproved
	cache.Upsert(approved)

	_, err := uc.UpdateAdjustment(context.Background(), testCompany, "m-1", AdjustmentInput{
		StoreID:        "st-1",
		ProductID:      "p-1",
		ActualQuantity: decimal.NewFromInt(1),
		Reason:         "x",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateAdjustment_ReResuelveLaPrevia(t *testing.T) {
	products, stores := submitFixture()
	cache := NewCache()
	remote := &fakeRemote{}
	uc := NewSubmitUseCase(products, stores, remote, cache)

	cache.Upsert(pendingMovement("m-1"))

	updated := pendingMovement("m-1")
	updated.PreviousQuantity = decimal.NewFromInt(40)
	remote.result = Result{Success: true, Data: updated}

	m, err := uc.UpdateAdjustment(context.Background(), testCompany, "m-1", AdjustmentInput{
		StoreID:        "st-1",
		ProductID:      "p-1",
		ActualQuantity: decimal.NewFromInt(38),
		Reason:         "recuento",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Update"}, remote.calls)
	assert.True(t, m.PreviousQuantity.Equal(decimal.NewFromInt(40)),
		"editar re-resuelve contra el stock vigente")
}

func TestUpdateAdjustment_EmpresaAjena(t *testing.T) {
	remote := &createEcho{}
	cache, uc := newSubmit(remote)
	cache.Upsert(pendingMovement("m-1"))

	_, err := uc.UpdateAdjustment(context.Background(), "co-otra", "m-1", AdjustmentInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete_SoloPendingYCancelled(t *testing.T) {
	remote := &fakeRemote{result: Result{Success: true}}
	cache, uc := newSubmit(remote)

	for _, status := range []workflow.Status{workflow.StatusApproved, workflow.StatusCompleted} {
		m := pendingMovement("m-bloqueado")
		m.Status = status
		cache.Upsert(m)

		err := uc.Delete(context.Background(), testCompany, "m-bloqueado")
		assert.ErrorIs(t, err, domain.ErrNotDeletable, "status=%s", status)
	}

	cancelled := pendingMovement("m-ok")
	cancelled.Status = workflow.StatusCancelled
	cache.Upsert(cancelled)

	require.NoError(t, uc.Delete(context.Background(), testCompany, "m-ok"))
	_, ok := cache.Get("m-ok")
	assert.False(t, ok, "se quita de la caché tras confirmar")
}
