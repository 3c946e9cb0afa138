package flete

import (
	"errors"

	"gorm.io/gorm"
)

// Repository encapsula el acceso a las comisiones de flete, keyed por
// (vendedor, período).
type Repository interface {
	BuscarPorVendedorYPeriodo(vendedor, periodo string) (*ComisionFlete, error)
	ListarPorPeriodo(periodo string) ([]ComisionFlete, error)
	GuardarConMerge(c *ComisionFlete) error
}

type repositoryImpl struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{DB: db}
}

func (r *repositoryImpl) BuscarPorVendedorYPeriodo(vendedor, periodo string) (*ComisionFlete, error) {
	var c ComisionFlete
	err := r.DB.Where("vendedor = ? AND periodo = ?", vendedor, periodo).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) ListarPorPeriodo(periodo string) ([]ComisionFlete, error) {
	var comisiones []ComisionFlete
	err := r.DB.Where("periodo = ?", periodo).Order("vendedor").Find(&comisiones).Error
	return comisiones, err
}

func (r *repositoryImpl) GuardarConMerge(c *ComisionFlete) error {
	existente, err := r.BuscarPorVendedorYPeriodo(c.Vendedor, c.Periodo)
	if err != nil {
		return err
	}
	if existente != nil {
		c.ID = existente.ID
		c.CreatedAt = existente.CreatedAt
	}
	return r.DB.Save(c).Error
}
