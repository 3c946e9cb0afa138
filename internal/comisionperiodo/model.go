package comisionperiodo

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
)

// Estados del ciclo de vida de la comisión de un período.
// calculada → cerrada → pagada; pagada es terminal.
const (
	EstadoCalculada = "calculada"
	EstadoCerrada   = "cerrada"
	EstadoPagada    = "pagada"
)

// Tipos de ajuste manual.
const (
	AjustePositivo = "positivo"
	AjusteNegativo = "negativo"
)

var (
	// ErrEstado marca una transición inválida del ciclo de vida. Nunca
	// se fuerza la transición "legal más cercana": se rechaza.
	ErrEstado = errors.New("transición de estado inválida")

	// ErrPeriodoInvalido rechaza períodos que no son "YYYY-MM".
	ErrPeriodoInvalido = errors.New("el período debe tener formato YYYY-MM")

	// ErrSinReglas rechaza el cálculo sin reglas activas cargadas.
	ErrSinReglas = errors.New("no hay reglas de comisión activas: cargar reglas antes de calcular")

	// ErrNoEncontrada indica que no existe comisión para ese vendedor y período.
	ErrNoEncontrada = errors.New("comisión no encontrada para el vendedor y período")

	// ErrAjusteInvalido rechaza ajustes con monto o motivo inválidos.
	ErrAjusteInvalido = errors.New("ajuste inválido")
)

var periodoRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ComisionPeriodo es la comisión de un vendedor en un período "YYYY-MM".
type ComisionPeriodo struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Vendedor      string            `gorm:"size:120;not null;uniqueIndex:idx_vendedor_periodo" json:"vendedor"`
	Periodo       string            `gorm:"size:7;not null;uniqueIndex:idx_vendedor_periodo" json:"periodo"`
	TotalCobrado  float64           `gorm:"not null;default:0" json:"totalCobrado"`
	TotalComision float64           `gorm:"not null;default:0" json:"totalComision"`
	TotalFinal    float64           `gorm:"not null;default:0" json:"totalFinal"`
	Estado        string            `gorm:"size:20;not null;default:'calculada';index" json:"estado"`
	Detalle       []DetalleComision `gorm:"foreignKey:ComisionPeriodoID;constraint:OnDelete:CASCADE" json:"detalle"`
	Ajustes       []Ajuste          `gorm:"foreignKey:ComisionPeriodoID;constraint:OnDelete:CASCADE" json:"ajustes"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// DetalleComision es un renglón facturado que comisionó.
type DetalleComision struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	ComisionPeriodoID uint    `gorm:"not null;index" json:"comisionPeriodoId"`
	NumeroFactura     string  `gorm:"size:64;not null" json:"numeroFactura"`
	Producto          string  `gorm:"size:255;not null" json:"producto"`
	Categoria         string  `gorm:"size:120;not null" json:"categoria"`
	Subtotal          float64 `gorm:"not null;default:0" json:"subtotal"`
	Porcentaje        float64 `gorm:"not null;default:0" json:"porcentaje"`
	Comision          float64 `gorm:"not null;default:0" json:"comision"`
}

// Ajuste es una corrección manual con signo sobre un período cerrado.
type Ajuste struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ComisionPeriodoID uint      `gorm:"not null;index" json:"comisionPeriodoId"`
	Tipo              string    `gorm:"size:20;not null" json:"tipo"`
	Monto             float64   `gorm:"not null" json:"monto"`
	Motivo            string    `gorm:"size:255;not null" json:"motivo"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Migrate crea las tablas del período de comisiones.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ComisionPeriodo{}, &DetalleComision{}, &Ajuste{})
}

// ValidarPeriodo chequea el formato antes de tocar el banco.
func ValidarPeriodo(periodo string) error {
	if !periodoRegex.MatchString(periodo) {
		return fmt.Errorf("%w (recibido %q)", ErrPeriodoInvalido, periodo)
	}
	return nil
}

// LimitesPeriodo devuelve [primer día del mes, primer día del mes
// siguiente) para el período dado.
func LimitesPeriodo(periodo string) (time.Time, time.Time, error) {
	if err := ValidarPeriodo(periodo); err != nil {
		return time.Time{}, time.Time{}, err
	}
	desde, err := time.ParseInLocation("2006-01", periodo, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w (recibido %q)", ErrPeriodoInvalido, periodo)
	}
	return desde, desde.AddDate(0, 1, 0), nil
}

// TotalConAjustes aplica la fórmula
// totalFinal = totalComision + Σ(monto × signo del tipo).
func TotalConAjustes(totalComision float64, ajustes []Ajuste) float64 {
	total := totalComision
	for _, a := range ajustes {
		if a.Tipo == AjusteNegativo {
			total -= a.Monto
		} else {
			total += a.Monto
		}
	}
	return total
}
