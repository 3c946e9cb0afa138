package flete

import (
	"context"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/crmventas/api-comisiones/internal/comisionperiodo"
	"github.com/crmventas/api-comisiones/internal/sincronizacion"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Habilitados es la lista de vendedores que comisionan.
type Habilitados interface {
	Contiene(nombre string) bool
}

// Calculadora computa la comisión de flete del período. Es un cálculo
// paralelo e independiente del de categorías: lee su propia fuente de
// totales transportados y no comparte estado mutable con aquel.
type Calculadora struct {
	Facturas   sincronizacion.Repository
	Repo       Repository
	Vendedores Habilitados
	Log        *logrus.Logger

	// Porcentaje plano aplicado sobre el total transportado.
	Porcentaje float64
	// PalabraClave identifica los renglones de transporte.
	PalabraClave string
}

func NewCalculadora(facturas sincronizacion.Repository, repo Repository, vendedores Habilitados, log *logrus.Logger) *Calculadora {
	return &Calculadora{
		Facturas:     facturas,
		Repo:         repo,
		Vendedores:   vendedores,
		Log:          log,
		Porcentaje:   porcentajeDesdeEnv(),
		PalabraClave: "flete",
	}
}

func porcentajeDesdeEnv() float64 {
	crudo := os.Getenv("COMISION_FLETE_PORCENTAJE")
	if crudo == "" {
		return PorcentajeNominal
	}
	porcentaje, err := strconv.ParseFloat(crudo, 64)
	if err != nil || porcentaje < 0 || porcentaje > 100 {
		return PorcentajeNominal
	}
	return porcentaje
}

// CalcularPeriodo suma lo transportado por cada vendedor habilitado en
// el período y persiste una ComisionFlete por vendedor.
func (s *Calculadora) CalcularPeriodo(ctx context.Context, periodo string) ([]ComisionFlete, error) {
	desde, hasta, err := comisionperiodo.LimitesPeriodo(periodo)
	if err != nil {
		return nil, err
	}

	facturas, err := s.Facturas.BuscarPorRango(desde, hasta)
	if err != nil {
		return nil, err
	}

	totales := make(map[string]float64)
	for _, factura := range facturas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.Vendedores.Contiene(factura.Vendedor) {
			continue
		}
		for _, item := range factura.Items {
			if item.Subtotal <= 0 {
				continue
			}
			if !strings.Contains(strings.ToLower(item.Descripcion), s.PalabraClave) {
				continue
			}
			totales[factura.Vendedor] += item.Subtotal
		}
	}

	nombres := make([]string, 0, len(totales))
	for nombre := range totales {
		nombres = append(nombres, nombre)
	}
	sort.Strings(nombres)

	resultado := make([]ComisionFlete, 0, len(nombres))
	for _, nombre := range nombres {
		c := ComisionFlete{
			Vendedor:      nombre,
			Periodo:       periodo,
			TotalFlete:    totales[nombre],
			Porcentaje:    s.Porcentaje,
			MontoComision: montoComision(totales[nombre], s.Porcentaje),
		}
		if err := s.Repo.GuardarConMerge(&c); err != nil {
			return nil, err
		}
		resultado = append(resultado, c)
	}

	s.Log.WithFields(logrus.Fields{
		"periodo":    periodo,
		"vendedores": len(resultado),
		"porcentaje": s.Porcentaje,
	}).Info("cálculo de comisiones de flete completado")

	return resultado, nil
}

func montoComision(totalFlete, porcentaje float64) float64 {
	return decimal.NewFromFloat(totalFlete).
		Mul(decimal.NewFromFloat(porcentaje)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
