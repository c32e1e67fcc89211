package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/application/movement"
	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

// MovementHandler expone el motor de movimientos de stock por HTTP: alta y
// edición, transiciones de estado, cancelación con motivo y acciones bulk.
type MovementHandler struct {
	submit      *movement.SubmitUseCase
	controller  *movement.Controller
	cancelFlow  *movement.CancellationFlow
	coordinator *movement.Coordinator
	cache       *movement.Cache
	repo        repository.MovementRepository
}

// NewMovementHandler construye el handler de movimientos.
func NewMovementHandler(
	submit *movement.SubmitUseCase,
	controller *movement.Controller,
	cancelFlow *movement.CancellationFlow,
	coordinator *movement.Coordinator,
	cache *movement.Cache,
	repo repository.MovementRepository,
) *MovementHandler {
	return &MovementHandler{
		submit:      submit,
		controller:  controller,
		cancelFlow:  cancelFlow,
		coordinator: coordinator,
		cache:       cache,
		repo:        repo,
	}
}

// CreateAdjustment godoc
// @Summary      Crear ajuste de stock
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "ajuste"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/adjustments [post]
func (h *MovementHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	m, err := h.submit.CreateAdjustment(c.Context(), GetCompanyID(c), GetUserID(c), movement.AdjustmentInput{
		StoreID:        in.StoreID,
		ProductID:      in.ProductID,
		VariantTitle:   in.VariantTitle,
		ActualQuantity: in.ActualQuantity,
		CallerQuantity: in.PreviousQuantity,
		Reason:         in.Reason,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// CreateTransfer godoc
// @Summary      Crear traslado entre tiendas
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "traslado"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/transfers [post]
func (h *MovementHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	m, err := h.submit.CreateTransfer(c.Context(), GetCompanyID(c), GetUserID(c), movement.TransferInput{
		FromStoreID:  in.FromStoreID,
		ToStoreID:    in.ToStoreID,
		ProductID:    in.ProductID,
		VariantTitle: in.VariantTitle,
		Quantity:     in.Quantity,
		Reason:       in.Reason,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// List godoc
// @Summary      Listar movimientos de la empresa
// @Tags         movements
// @Produce      json
// @Param        kind    query  string  false  "adjustment | transfer"
// @Param        status  query  string  false  "pending | approved | completed | cancelled"
// @Param        limit   query  int     false  "por defecto 20"
// @Param        offset  query  int     false  "por defecto 0"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	in.DefaultPage()

	list, total, err := h.repo.ListByCompany(GetCompanyID(c), in.Kind, workflow.Status(in.Status), in.Limit, in.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// Get godoc
// @Summary      Obtener un movimiento
// @Tags         movements
// @Produce      json
// @Param        id  path  string  true  "movement id"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	m, err := h.ensureCached(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toMovementResponse(m))
}

// NextStates godoc
// @Summary      Estados destino legales desde el estado actual
// @Tags         movements
// @Produce      json
// @Param        id  path  string  true  "movement id"
// @Success      200  {object}  map[string][]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/next-states [get]
func (h *MovementHandler) NextStates(c *fiber.Ctx) error {
	m, err := h.ensureCached(c.Params("id"), GetCompanyID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"next_states": statusStrings(workflow.NextStates(m.Status))})
}

// UpdateAdjustment godoc
// @Summary      Editar un ajuste en pending
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "movement id"
// @Param        body  body  dto.UpdateAdjustmentRequest  true  "ajuste"
// @Success      200   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *MovementHandler) UpdateAdjustment(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.ensureCached(id, GetCompanyID(c)); err != nil {
		return mapDomainError(c, err)
	}
	var in dto.UpdateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	m, err := h.submit.UpdateAdjustment(c.Context(), GetCompanyID(c), id, movement.AdjustmentInput{
		StoreID:        in.StoreID,
		ProductID:      in.ProductID,
		VariantTitle:   in.VariantTitle,
		ActualQuantity: in.ActualQuantity,
		CallerQuantity: in.PreviousQuantity,
		Reason:         in.Reason,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toMovementResponse(m))
}

// Transition godoc
// @Summary      Cambiar el estado de un movimiento
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "movement id"
// @Param        body  body  dto.TransitionRequest  true  "estado destino"
// @Success      200   {object}  dto.MovementResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/status [patch]
func (h *MovementHandler) Transition(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.ensureCached(id, GetCompanyID(c)); err != nil {
		return mapDomainError(c, err)
	}
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	target, _ := workflow.ParseStatus(in.Status)

	// Cancelar exige motivo: esa arista pasa por el flujo de cancelación.
	if target == workflow.StatusCancelled {
		return h.cancel(c, id, in.Reason)
	}
	m, err := h.controller.ApplyTransition(c.Context(), id, target, "")
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toMovementResponse(m))
}

// Cancel godoc
// @Summary      Cancelar un movimiento con motivo
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "movement id"
// @Param        body  body  dto.CancelRequest  true  "motivo"
// @Success      200   {object}  dto.MovementResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.ensureCached(id, GetCompanyID(c)); err != nil {
		return mapDomainError(c, err)
	}
	var in dto.CancelRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	return h.cancel(c, id, in.Reason)
}

func (h *MovementHandler) cancel(c *fiber.Ctx, id, reason string) error {
	m, aborted, err := h.cancelFlow.RequestCancellation(c.Context(), id, movement.StaticReasonPrompt{Reason: reason})
	if err != nil {
		return mapDomainError(c, err)
	}
	if aborted {
		// Con prompt estático no ocurre, pero el contrato del flujo lo permite.
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toMovementResponse(m))
}

// Delete godoc
// @Summary      Eliminar un movimiento (solo pending o cancelled)
// @Tags         movements
// @Param        id  path  string  true  "movement id"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.ensureCached(id, GetCompanyID(c)); err != nil {
		return mapDomainError(c, err)
	}
	if err := h.submit.Delete(c.Context(), GetCompanyID(c), id); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkStatus godoc
// @Summary      Aplicar un cambio de estado a una selección
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkStatusRequest  true  "ids y estado destino"
// @Success      202
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/movements/bulk/status [post]
func (h *MovementHandler) BulkStatus(c *fiber.Ctx) error {
	var in dto.BulkStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	companyID := GetCompanyID(c)
	if err := h.ensureAllCached(in.IDs, companyID); err != nil {
		return mapDomainError(c, err)
	}
	target, _ := workflow.ParseStatus(in.Status)
	h.coordinator.Select(companyID, in.IDs...)
	if err := h.coordinator.ApplyBulk(c.Context(), companyID, movement.BulkActionStatus, target); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// BulkDelete godoc
// @Summary      Eliminar una selección de movimientos
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkDeleteRequest  true  "ids"
// @Success      202
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/movements/bulk/delete [post]
func (h *MovementHandler) BulkDelete(c *fiber.Ctx) error {
	var in dto.BulkDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	companyID := GetCompanyID(c)
	if err := h.ensureAllCached(in.IDs, companyID); err != nil {
		return mapDomainError(c, err)
	}
	h.coordinator.Select(companyID, in.IDs...)
	if err := h.coordinator.ApplyBulk(c.Context(), companyID, movement.BulkActionDelete, ""); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// ensureAllCached verifica la pertenencia de cada id de una selección bulk:
// un id de otra empresa corta la operación entera antes de seleccionar nada.
func (h *MovementHandler) ensureAllCached(ids []string, companyID string) error {
	for _, id := range ids {
		if _, err := h.ensureCached(id, companyID); err != nil {
			return err
		}
	}
	return nil
}

// ensureCached garantiza que el movimiento esté en la caché del motor,
// hidratándola desde el repositorio si hace falta, y verifica la empresa.
func (h *MovementHandler) ensureCached(id, companyID string) (*entity.StockMovement, error) {
	if m, ok := h.cache.Get(id); ok {
		if m.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		return &m, nil
	}
	m, err := h.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	h.cache.Upsert(m)
	return m, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		Kind:             m.Kind,
		Status:           string(m.Status),
		StoreID:          m.StoreID,
		FromStoreID:      m.FromStoreID,
		ToStoreID:        m.ToStoreID,
		ProductID:        m.ProductID,
		VariantTitle:     m.VariantTitle,
		SKU:              m.SKU,
		PreviousQuantity: m.PreviousQuantity,
		ActualQuantity:   m.ActualQuantity,
		Difference:       m.Difference,
		MovementClass:    m.MovementClass,
		Reason:           m.Reason,
		RejectionReason:  m.RejectionReason,
		Notes:            m.Notes,
		NextStates:       statusStrings(workflow.NextStates(m.Status)),
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func statusStrings(in []workflow.Status) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
