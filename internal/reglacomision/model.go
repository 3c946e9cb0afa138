package reglacomision

import (
	"time"

	"gorm.io/gorm"
)

// ReglaComision asocia una palabra clave de categoría con el porcentaje
// de comisión que paga. La mantiene el administrador; solo las activas
// participan del cálculo.
type ReglaComision struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Categoria  string    `gorm:"size:120;not null;uniqueIndex" json:"categoria"`
	Porcentaje float64   `gorm:"not null;default:0" json:"porcentaje"`
	Activa     bool      `gorm:"not null;default:true" json:"activa"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Migrate crea la tabla de reglas.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ReglaComision{})
}
