package repository

import "github.com/jhoicas/Movimientos-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	Update(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
	// GetActiveModule devuelve el módulo SaaS si está activo y no vencido.
	GetActiveModule(companyID, moduleName string) (*entity.CompanyModule, error)
	Delete(id string) error
}
