package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/application/usecase"
	"github.com/jhoicas/Movimientos-api/internal/domain"
)

// CompanyHandler alta y consulta de empresas (tenants). El alta es pública
// (onboarding); la consulta queda detrás de auth y limitada a la propia empresa.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler de empresas.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener la empresa propia
// @Tags         companies
// @Produce      json
// @Param        id  path  string  true  "company id"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id != GetCompanyID(c) {
		return mapDomainError(c, domain.ErrForbidden)
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return mapDomainError(c, err)
	}
	if out == nil {
		return mapDomainError(c, domain.ErrNotFound)
	}
	return c.JSON(out)
}
