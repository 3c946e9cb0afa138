package comisionperiodo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository encapsula el acceso al documento de comisión por
// (vendedor, período).
type Repository interface {
	BuscarPorVendedorYPeriodo(vendedor, periodo string) (*ComisionPeriodo, error)
	ListarPorPeriodo(periodo string) ([]ComisionPeriodo, error)
	// GuardarCalculada hace el upsert-con-merge de un cálculo: pisa el
	// detalle anterior y deja el registro en estado calculada. El camino
	// de recálculo es condicional: si el registro dejó de estar en
	// calculada devuelve ErrEstado sin mutar nada.
	GuardarCalculada(c *ComisionPeriodo) error
	// ActualizarEstado es la escritura condicional del ciclo de vida:
	// solo escribe si el estado actual es el esperado; si otro escritor
	// se adelantó devuelve ErrEstado.
	ActualizarEstado(id uint, esperado, nuevo string) error
	// AgregarAjuste persiste el ajuste y el nuevo totalFinal en una
	// transacción, condicionada a que el registro siga cerrado.
	AgregarAjuste(c *ComisionPeriodo, ajuste *Ajuste, totalFinal float64) error
}

type repositoryImpl struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{DB: db}
}

func (r *repositoryImpl) BuscarPorVendedorYPeriodo(vendedor, periodo string) (*ComisionPeriodo, error) {
	var c ComisionPeriodo
	err := r.DB.Preload("Detalle").Preload("Ajustes").
		Where("vendedor = ? AND periodo = ?", vendedor, periodo).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) ListarPorPeriodo(periodo string) ([]ComisionPeriodo, error) {
	var comisiones []ComisionPeriodo
	err := r.DB.Preload("Detalle").Preload("Ajustes").
		Where("periodo = ?", periodo).
		Order("vendedor").
		Find(&comisiones).Error
	return comisiones, err
}

func (r *repositoryImpl) GuardarCalculada(c *ComisionPeriodo) error {
	c.Estado = EstadoCalculada
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if c.ID == 0 {
			return tx.Create(c).Error
		}

		// Recalculo condicionado al estado: si un cierre se coló entre la
		// lectura y este punto, el registro ya no está en calculada y no
		// se pisa nada.
		res := tx.Model(&ComisionPeriodo{}).
			Where("id = ? AND estado = ?", c.ID, EstadoCalculada).
			Updates(map[string]any{
				"total_cobrado":  c.TotalCobrado,
				"total_comision": c.TotalComision,
				"total_final":    c.TotalFinal,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: el registro ya no está en estado %q", ErrEstado, EstadoCalculada)
		}

		// El detalle anterior se descarta por completo.
		if err := tx.Where("comision_periodo_id = ?", c.ID).Delete(&DetalleComision{}).Error; err != nil {
			return err
		}
		if len(c.Detalle) == 0 {
			return nil
		}
		for i := range c.Detalle {
			c.Detalle[i].ID = 0
			c.Detalle[i].ComisionPeriodoID = c.ID
		}
		return tx.Create(&c.Detalle).Error
	})
}

func (r *repositoryImpl) ActualizarEstado(id uint, esperado, nuevo string) error {
	res := r.DB.Model(&ComisionPeriodo{}).
		Where("id = ? AND estado = ?", id, esperado).
		Update("estado", nuevo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: el registro ya no está en estado %q", ErrEstado, esperado)
	}
	return nil
}

func (r *repositoryImpl) AgregarAjuste(c *ComisionPeriodo, ajuste *Ajuste, totalFinal float64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		ajuste.ComisionPeriodoID = c.ID
		if err := tx.Create(ajuste).Error; err != nil {
			return err
		}

		res := tx.Model(&ComisionPeriodo{}).
			Where("id = ? AND estado = ?", c.ID, EstadoCerrada).
			Update("total_final", totalFinal)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: el período dejó de estar cerrado", ErrEstado)
		}
		return nil
	})
}
