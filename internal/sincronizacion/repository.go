package sincronizacion

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository encapsula el acceso al registro local de facturas con
// semántica de upsert-con-merge.
type Repository interface {
	BuscarPorNumero(numero string) (*FacturaComision, error)
	// GuardarConMerge crea o pisa el registro completo de la factura.
	// Devuelve true cuando la factura no existía (alta).
	GuardarConMerge(f *FacturaComision) (bool, error)
	// BuscarPorRango lista las facturas emitidas en [desde, hasta).
	BuscarPorRango(desde, hasta time.Time) ([]FacturaComision, error)
}

type repositoryImpl struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{DB: db}
}

func (r *repositoryImpl) BuscarPorNumero(numero string) (*FacturaComision, error) {
	var f FacturaComision
	err := r.DB.Preload("Items").First(&f, "numero_factura = ?", numero).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repositoryImpl) GuardarConMerge(f *FacturaComision) (bool, error) {
	creada := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existente FacturaComision
		err := tx.First(&existente, "numero_factura = ?", f.NumeroFactura).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			creada = true
			return tx.Create(f).Error
		case err != nil:
			return err
		}

		// Merge: se reemplazan los renglones y se pisan los campos
		// de cabecera, conservando el registro existente.
		if err := tx.Where("numero_factura = ?", f.NumeroFactura).Delete(&ItemFactura{}).Error; err != nil {
			return err
		}
		return tx.Save(f).Error
	})
	return creada, err
}

func (r *repositoryImpl) BuscarPorRango(desde, hasta time.Time) ([]FacturaComision, error) {
	var facturas []FacturaComision
	err := r.DB.Preload("Items").
		Where("fecha_emision >= ? AND fecha_emision < ?", desde, hasta).
		Find(&facturas).Error
	return facturas, err
}
