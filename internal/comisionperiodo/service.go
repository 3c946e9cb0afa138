package comisionperiodo

import (
	"context"
	"fmt"
	"sort"

	"github.com/crmventas/api-comisiones/internal/reglacomision"
	"github.com/crmventas/api-comisiones/internal/sincronizacion"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReglasActivas es lo único que el cálculo necesita del almacén de reglas.
type ReglasActivas interface {
	CargarActivas() (map[string]float64, error)
}

// Habilitados es la lista de vendedores que comisionan.
type Habilitados interface {
	Contiene(nombre string) bool
}

// Calculadora recorre las facturas sincronizadas de un período y arma
// la comisión de cada vendedor habilitado.
type Calculadora struct {
	Facturas   sincronizacion.Repository
	Reglas     ReglasActivas
	Repo       Repository
	Vendedores Habilitados
	Candados   *Candados
	Log        *logrus.Logger
}

func NewCalculadora(facturas sincronizacion.Repository, reglas ReglasActivas, repo Repository, vendedores Habilitados, candados *Candados, log *logrus.Logger) *Calculadora {
	return &Calculadora{
		Facturas:   facturas,
		Reglas:     reglas,
		Repo:       repo,
		Vendedores: vendedores,
		Candados:   candados,
		Log:        log,
	}
}

// CalcularPeriodo computa y persiste la comisión de cada vendedor para
// el período. Pisa cálculos anteriores en estado calculada; si algún
// registro del período ya está cerrado o pagado no corre en absoluto.
func (s *Calculadora) CalcularPeriodo(ctx context.Context, periodo string) ([]ComisionPeriodo, error) {
	desde, hasta, err := LimitesPeriodo(periodo)
	if err != nil {
		return nil, err
	}

	reglas, err := s.Reglas.CargarActivas()
	if err != nil {
		return nil, err
	}
	if len(reglas) == 0 {
		return nil, ErrSinReglas
	}

	facturas, err := s.Facturas.BuscarPorRango(desde, hasta)
	if err != nil {
		return nil, err
	}

	acumulado := make(map[string]*ComisionPeriodo)
	for _, factura := range facturas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.Vendedores.Contiene(factura.Vendedor) {
			s.Log.WithFields(logrus.Fields{
				"factura":  factura.NumeroFactura,
				"vendedor": factura.Vendedor,
			}).Debug("vendedor fuera de la lista habilitada, factura ignorada")
			continue
		}

		c, ok := acumulado[factura.Vendedor]
		if !ok {
			c = &ComisionPeriodo{Vendedor: factura.Vendedor, Periodo: periodo, Estado: EstadoCalculada}
			acumulado[factura.Vendedor] = c
		}

		for _, item := range factura.Items {
			if item.Subtotal <= 0 {
				continue
			}
			categoria, ok := reglacomision.MatchCategoria(item.Descripcion, reglas)
			if !ok {
				// Sin categoría: comisiona 0 y no entra al detalle.
				s.Log.WithFields(logrus.Fields{
					"factura":     factura.NumeroFactura,
					"descripcion": item.Descripcion,
				}).Info("renglón sin categoría de comisión")
				continue
			}

			porcentaje := reglas[categoria]
			comision := calcularComision(item.Subtotal, porcentaje)

			c.TotalCobrado += item.Subtotal
			c.TotalComision += comision
			c.Detalle = append(c.Detalle, DetalleComision{
				NumeroFactura: factura.NumeroFactura,
				Producto:      item.Descripcion,
				Categoria:     categoria,
				Subtotal:      item.Subtotal,
				Porcentaje:    porcentaje,
				Comision:      comision,
			})
		}
	}

	vendedores := make([]string, 0, len(acumulado))
	for nombre := range acumulado {
		vendedores = append(vendedores, nombre)
	}
	sort.Strings(vendedores)

	// Chequeo previo completo: si cualquier registro del período está
	// cerrado o pagado, el cálculo se rechaza sin mutar nada.
	existentes := make(map[string]*ComisionPeriodo, len(vendedores))
	for _, nombre := range vendedores {
		existente, err := s.Repo.BuscarPorVendedorYPeriodo(nombre, periodo)
		if err != nil {
			return nil, err
		}
		if existente != nil && existente.Estado != EstadoCalculada {
			return nil, fmt.Errorf("%w: la comisión de %s en %s ya está %s", ErrEstado, nombre, periodo, existente.Estado)
		}
		existentes[nombre] = existente
	}

	resultado := make([]ComisionPeriodo, 0, len(vendedores))
	for _, nombre := range vendedores {
		c := acumulado[nombre]
		c.TotalFinal = c.TotalComision

		candado := s.Candados.Para(nombre, periodo)
		candado.Lock()
		if existente := existentes[nombre]; existente != nil {
			c.ID = existente.ID
			c.CreatedAt = existente.CreatedAt
		}
		err := s.Repo.GuardarCalculada(c)
		candado.Unlock()
		if err != nil {
			return nil, err
		}
		resultado = append(resultado, *c)
	}

	s.Log.WithFields(logrus.Fields{
		"periodo":    periodo,
		"facturas":   len(facturas),
		"vendedores": len(resultado),
	}).Info("cálculo de comisiones del período completado")

	return resultado, nil
}

// calcularComision aplica subtotal × porcentaje / 100 con redondeo a
// dos decimales, sin arrastre binario.
func calcularComision(subtotal, porcentaje float64) float64 {
	return decimal.NewFromFloat(subtotal).
		Mul(decimal.NewFromFloat(porcentaje)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
