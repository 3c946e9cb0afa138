package sincronizacion

import (
	"time"

	"gorm.io/gorm"
)

// FacturaComision es el registro local de una factura que participa del
// cálculo de comisiones. Se crea o actualiza en cada corrida de
// sincronización; este subsistema nunca lo borra.
type FacturaComision struct {
	NumeroFactura  string        `gorm:"primaryKey;size:64" json:"numeroFactura"`
	Vendedor       string        `gorm:"size:120;not null;index" json:"vendedor"`
	FechaEmision   time.Time     `gorm:"not null;index" json:"fechaEmision"`
	Items          []ItemFactura `gorm:"foreignKey:NumeroFactura;references:NumeroFactura;constraint:OnDelete:CASCADE" json:"items"`
	SincronizadaEn time.Time     `json:"sincronizadaEn"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// ItemFactura es un renglón normalizado de la factura sincronizada.
type ItemFactura struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	NumeroFactura string  `gorm:"size:64;not null;index" json:"numeroFactura"`
	Descripcion   string  `gorm:"size:255;not null" json:"descripcion"`
	Subtotal      float64 `gorm:"not null;default:0" json:"subtotal"`
}

// Migrate crea las tablas del registro local.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&FacturaComision{}, &ItemFactura{})
}
