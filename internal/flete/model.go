package flete

import (
	"time"

	"gorm.io/gorm"
)

// PorcentajeNominal es la comisión de flete por defecto.
const PorcentajeNominal = 4.0

// ComisionFlete es la comisión plana sobre lo transportado por un
// vendedor en un período. Corre en paralelo a la comisión por
// categorías y nunca se mezcla con ella: las dos se combinan recién al
// presentar el resumen.
type ComisionFlete struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Vendedor      string    `gorm:"size:120;not null;uniqueIndex:idx_flete_vendedor_periodo" json:"vendedor"`
	Periodo       string    `gorm:"size:7;not null;uniqueIndex:idx_flete_vendedor_periodo" json:"periodo"`
	TotalFlete    float64   `gorm:"not null;default:0" json:"totalFlete"`
	Porcentaje    float64   `gorm:"not null;default:0" json:"porcentaje"`
	MontoComision float64   `gorm:"not null;default:0" json:"montoComision"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Migrate crea la tabla de comisiones de flete.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ComisionFlete{})
}
