package comisionperiodo

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Candados da exclusión mutua por clave (vendedor, período). Toda
// transición del ciclo de vida y todo recálculo pasan por acá: el banco
// solo hace la escritura condicional de respaldo.
type Candados struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func NewCandados() *Candados {
	return &Candados{m: make(map[string]*sync.Mutex)}
}

func (c *Candados) Para(vendedor, periodo string) *sync.Mutex {
	clave := strings.ToLower(vendedor) + "|" + periodo
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[clave]; !ok {
		c.m[clave] = &sync.Mutex{}
	}
	return c.m[clave]
}

// Ledger gobierna el ciclo de vida de la comisión de un período:
// calculada → cerrada (acepta ajustes) → pagada (terminal).
type Ledger struct {
	Repo     Repository
	Candados *Candados
	Log      *logrus.Logger
}

func NewLedger(repo Repository, candados *Candados, log *logrus.Logger) *Ledger {
	return &Ledger{Repo: repo, Candados: candados, Log: log}
}

// Obtener devuelve la comisión de un vendedor en un período.
func (l *Ledger) Obtener(vendedor, periodo string) (*ComisionPeriodo, error) {
	if err := ValidarPeriodo(periodo); err != nil {
		return nil, err
	}
	c, err := l.Repo.BuscarPorVendedorYPeriodo(vendedor, periodo)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNoEncontrada
	}
	return c, nil
}

// Cerrar pasa todas las comisiones calculadas del período a cerradas.
// Si alguna ya está cerrada o pagada, o no hay ninguna calculada, no
// muta nada.
func (l *Ledger) Cerrar(periodo string) ([]ComisionPeriodo, error) {
	if err := ValidarPeriodo(periodo); err != nil {
		return nil, err
	}

	comisiones, err := l.Repo.ListarPorPeriodo(periodo)
	if err != nil {
		return nil, err
	}
	if len(comisiones) == 0 {
		return nil, fmt.Errorf("%w: no hay comisiones calculadas para el período %s", ErrEstado, periodo)
	}
	for _, c := range comisiones {
		if c.Estado != EstadoCalculada {
			return nil, fmt.Errorf("%w: la comisión de %s en %s ya está %s", ErrEstado, c.Vendedor, periodo, c.Estado)
		}
	}

	cerradas := make([]ComisionPeriodo, 0, len(comisiones))
	for _, c := range comisiones {
		candado := l.Candados.Para(c.Vendedor, periodo)
		candado.Lock()
		err := l.Repo.ActualizarEstado(c.ID, EstadoCalculada, EstadoCerrada)
		candado.Unlock()
		if err != nil {
			return nil, err
		}
		c.Estado = EstadoCerrada
		cerradas = append(cerradas, c)
	}

	l.Log.WithFields(logrus.Fields{
		"periodo":    periodo,
		"comisiones": len(cerradas),
	}).Info("período cerrado")

	return cerradas, nil
}

// AgregarAjuste suma una corrección manual a una comisión cerrada y
// recalcula el totalFinal. El monto debe ser positivo y el motivo es
// obligatorio.
func (l *Ledger) AgregarAjuste(vendedor, periodo, tipo string, monto float64, motivo string) (*ComisionPeriodo, error) {
	if err := ValidarPeriodo(periodo); err != nil {
		return nil, err
	}
	if tipo != AjustePositivo && tipo != AjusteNegativo {
		return nil, fmt.Errorf("%w: el tipo debe ser %q o %q", ErrAjusteInvalido, AjustePositivo, AjusteNegativo)
	}
	if monto <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", ErrAjusteInvalido)
	}
	if strings.TrimSpace(motivo) == "" {
		return nil, fmt.Errorf("%w: el motivo es obligatorio", ErrAjusteInvalido)
	}

	candado := l.Candados.Para(vendedor, periodo)
	candado.Lock()
	defer candado.Unlock()

	c, err := l.Repo.BuscarPorVendedorYPeriodo(vendedor, periodo)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNoEncontrada
	}
	if c.Estado != EstadoCerrada {
		return nil, fmt.Errorf("%w: solo un período cerrado acepta ajustes (estado actual: %s)", ErrEstado, c.Estado)
	}

	ajuste := &Ajuste{Tipo: tipo, Monto: monto, Motivo: strings.TrimSpace(motivo)}
	nuevoTotal := TotalConAjustes(c.TotalComision, append(c.Ajustes, *ajuste))

	if err := l.Repo.AgregarAjuste(c, ajuste, nuevoTotal); err != nil {
		return nil, err
	}

	c.Ajustes = append(c.Ajustes, *ajuste)
	c.TotalFinal = nuevoTotal
	return c, nil
}

// Pagar marca como pagada una comisión cerrada. Es terminal: después
// no se admite ninguna mutación.
func (l *Ledger) Pagar(vendedor, periodo string) (*ComisionPeriodo, error) {
	if err := ValidarPeriodo(periodo); err != nil {
		return nil, err
	}

	candado := l.Candados.Para(vendedor, periodo)
	candado.Lock()
	defer candado.Unlock()

	c, err := l.Repo.BuscarPorVendedorYPeriodo(vendedor, periodo)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNoEncontrada
	}
	if c.Estado != EstadoCerrada {
		return nil, fmt.Errorf("%w: solo se paga un período cerrado (estado actual: %s)", ErrEstado, c.Estado)
	}

	if err := l.Repo.ActualizarEstado(c.ID, EstadoCerrada, EstadoPagada); err != nil {
		return nil, err
	}

	l.Log.WithFields(logrus.Fields{
		"vendedor": vendedor,
		"periodo":  periodo,
		"total":    c.TotalFinal,
	}).Info("comisión pagada")

	c.Estado = EstadoPagada
	return c, nil
}
