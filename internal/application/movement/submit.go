package movement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/inventory"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

// SubmitUseCase pipeline de alta y edición de movimientos: resuelve la
// cantidad previa en el momento del envío, calcula la diferencia, impone la
// regla del motivo y persiste vía las acciones remotas. Es el único sitio
// donde se resuelve PreviousQuantity; después queda congelada como hecho
// puntual.
type SubmitUseCase struct {
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	remote      RemoteActions
	cache       *Cache
}

// NewSubmitUseCase construye el caso de uso de envío.
func NewSubmitUseCase(productRepo repository.ProductRepository, storeRepo repository.StoreRepository, remote RemoteActions, cache *Cache) *SubmitUseCase {
	return &SubmitUseCase{productRepo: productRepo, storeRepo: storeRepo, remote: remote, cache: cache}
}

// AdjustmentInput datos de un ajuste de stock.
type AdjustmentInput struct {
	StoreID        string
	ProductID      string
	VariantTitle   string
	ActualQuantity decimal.Decimal
	// CallerQuantity cantidad previa aportada por el llamador; entra en la
	// precedencia del resolver como penúltimo recurso.
	CallerQuantity *decimal.Decimal
	Reason         string
}

// TransferInput datos de un traslado entre tiendas.
type TransferInput struct {
	FromStoreID  string
	ToStoreID    string
	ProductID    string
	VariantTitle string
	Quantity     decimal.Decimal
	Reason       string
}

// CreateAdjustment valida, resuelve cantidad previa y diferencia, y crea el
// ajuste en pending. La regla "diferencia != 0 exige motivo" se impone ANTES
// de cualquier llamada remota.
func (uc *SubmitUseCase) CreateAdjustment(ctx context.Context, companyID, userID string, in AdjustmentInput) (*entity.StockMovement, error) {
	product, store, err := uc.lookupLine(companyID, in.ProductID, in.StoreID)
	if err != nil {
		return nil, err
	}

	res := inventory.ResolvePreviousQuantity(product, in.VariantTitle, store.ID, in.CallerQuantity)
	diff := inventory.ComputeDifference(res.Quantity, in.ActualQuantity)
	if !diff.IsZero() && strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrReasonRequired
	}

	now := time.Now()
	m := &entity.StockMovement{
		CompanyID:        companyID,
		Kind:             entity.MovementKindAdjustment,
		Status:           workflow.StatusPending,
		StoreID:          store.ID,
		ProductID:        product.ID,
		VariantTitle:     in.VariantTitle,
		SKU:              res.SKU,
		PreviousQuantity: res.Quantity,
		ActualQuantity:   in.ActualQuantity,
		Difference:       diff.Value,
		MovementClass:    diff.Class,
		Reason:           strings.TrimSpace(in.Reason),
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return uc.create(ctx, m)
}

// CreateTransfer valida tiendas distintas y cantidad positiva, resuelve la
// cantidad previa en la tienda de origen y crea el traslado en pending.
func (uc *SubmitUseCase) CreateTransfer(ctx context.Context, companyID, userID string, in TransferInput) (*entity.StockMovement, error) {
	if in.FromStoreID == in.ToStoreID {
		return nil, fmt.Errorf("%w: las tiendas de origen y destino deben diferir", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad a trasladar debe ser positiva", domain.ErrInvalidInput)
	}
	product, fromStore, err := uc.lookupLine(companyID, in.ProductID, in.FromStoreID)
	if err != nil {
		return nil, err
	}
	toStore, err := uc.storeRepo.GetByID(in.ToStoreID)
	if err != nil {
		return nil, err
	}
	if toStore == nil || toStore.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	res := inventory.ResolvePreviousQuantity(product, in.VariantTitle, fromStore.ID, nil)

	now := time.Now()
	m := &entity.StockMovement{
		CompanyID:        companyID,
		Kind:             entity.MovementKindTransfer,
		Status:           workflow.StatusPending,
		FromStoreID:      fromStore.ID,
		ToStoreID:        toStore.ID,
		ProductID:        product.ID,
		VariantTitle:     in.VariantTitle,
		SKU:              res.SKU,
		PreviousQuantity: res.Quantity,
		ActualQuantity:   in.Quantity,
		Reason:           strings.TrimSpace(in.Reason),
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return uc.create(ctx, m)
}

// UpdateAdjustment edita un ajuste en pending: re-resuelve la cantidad previa
// (edición cuenta como nuevo momento de envío) y recalcula la diferencia.
func (uc *SubmitUseCase) UpdateAdjustment(ctx context.Context, companyID, id string, in AdjustmentInput) (*entity.StockMovement, error) {
	current, ok := uc.cache.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if current.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if current.Status != workflow.StatusPending {
		return nil, fmt.Errorf("%w: solo se editan movimientos en pending", domain.ErrConflict)
	}

	product, store, err := uc.lookupLine(companyID, in.ProductID, in.StoreID)
	if err != nil {
		return nil, err
	}
	res := inventory.ResolvePreviousQuantity(product, in.VariantTitle, store.ID, in.CallerQuantity)
	diff := inventory.ComputeDifference(res.Quantity, in.ActualQuantity)
	if !diff.IsZero() && strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrReasonRequired
	}

	current.StoreID = store.ID
	current.ProductID = product.ID
	current.VariantTitle = in.VariantTitle
	current.SKU = res.SKU
	current.PreviousQuantity = res.Quantity
	current.ActualQuantity = in.ActualQuantity
	current.Difference = diff.Value
	current.MovementClass = diff.Class
	current.Reason = strings.TrimSpace(in.Reason)
	current.UpdatedAt = time.Now()

	result, err := uc.remote.Update(ctx, &current)
	if err != nil || !result.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteFailure, remoteErrorMessage(result, err))
	}
	uc.cache.Upsert(result.Data)
	return result.Data, nil
}

// Delete elimina un movimiento. Solo pending y cancelled son eliminables.
func (uc *SubmitUseCase) Delete(ctx context.Context, companyID, id string) error {
	current, ok := uc.cache.Get(id)
	if !ok {
		return domain.ErrNotFound
	}
	if current.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !current.Deletable() {
		return fmt.Errorf("%w: estado %s", domain.ErrNotDeletable, current.Status)
	}
	res, err := uc.remote.Delete(ctx, id)
	if err != nil || !res.Success {
		return fmt.Errorf("%w: %s", domain.ErrRemoteFailure, remoteErrorMessage(res, err))
	}
	uc.cache.Remove(id)
	return nil
}

// create despacha el alta al remoto; el id lo asigna el servicio en la
// creación y la entidad devuelta es la canónica que entra en caché.
func (uc *SubmitUseCase) create(ctx context.Context, m *entity.StockMovement) (*entity.StockMovement, error) {
	res, err := uc.remote.Create(ctx, m)
	if err != nil || !res.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteFailure, remoteErrorMessage(res, err))
	}
	uc.cache.Upsert(res.Data)
	return res.Data, nil
}

// lookupLine valida producto y tienda contra la empresa.
func (uc *SubmitUseCase) lookupLine(companyID, productID, storeID string) (*entity.Product, *entity.Store, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, nil, domain.ErrNotFound
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, nil, err
	}
	if store == nil || store.CompanyID != companyID {
		return nil, nil, domain.ErrNotFound
	}
	return product, store, nil
}
