package sincronizacion

import (
	"context"
	"strings"
	"time"

	"github.com/crmventas/api-comisiones/internal/alegra"
	"github.com/crmventas/api-comisiones/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ClienteFacturacion es la porción de la API externa que usa la
// sincronización.
type ClienteFacturacion interface {
	ObtenerPagos(ctx context.Context, diasAtras int) ([]alegra.Pago, error)
	ObtenerFacturaPorID(ctx context.Context, id string) (*alegra.Factura, error)
}

// Habilitados es la lista de vendedores que comisionan.
type Habilitados interface {
	Contiene(nombre string) bool
}

// ResumenSincronizacion es el resultado estructurado de una corrida.
// La corrida siempre termina: los errores por factura se cuentan, no
// abortan el lote.
type ResumenSincronizacion struct {
	Total            int `json:"total"`
	Creadas          int `json:"created"`
	Actualizadas     int `json:"updated"`
	Errores          int `json:"errors"`
	SinVendedor      int `json:"sellerMissing"`
	VendedorInvalido int `json:"sellerInvalid"`
	PagosTotal       int `json:"paymentsTotal"`
	PagosConFactura  int `json:"paymentsWithInvoice"`
	PagosSinFactura  int `json:"paymentsWithoutInvoice"`
}

// Service reconcilia los pagos recientes de la API externa contra el
// registro local de facturas.
type Service struct {
	Cliente    ClienteFacturacion
	Repo       Repository
	Vendedores Habilitados
	Log        *logrus.Logger

	// Pausa entre búsquedas de facturas individuales.
	EsperaEntreFacturas time.Duration
	// Ventana de pagos en días: normal y completa (?full=true).
	DiasNormales  int
	DiasCompletos int
}

func NewService(cliente ClienteFacturacion, repo Repository, vendedores Habilitados, log *logrus.Logger) *Service {
	return &Service{
		Cliente:             cliente,
		Repo:                repo,
		Vendedores:          vendedores,
		Log:                 log,
		EsperaEntreFacturas: 200 * time.Millisecond,
		DiasNormales:        30,
		DiasCompletos:       90,
	}
}

// Sincronizar trae los pagos recientes, extrae y deduplica las facturas
// referenciadas y persiste cada una con upsert-con-merge. Idempotente:
// sin pagos nuevos, la segunda corrida no crea registros.
func (s *Service) Sincronizar(ctx context.Context, completa bool) (*ResumenSincronizacion, error) {
	corrida := uuid.NewString()
	dias := s.DiasNormales
	if completa {
		dias = s.DiasCompletos
	}

	pagos, err := s.Cliente.ObtenerPagos(ctx, dias)
	if err != nil {
		return nil, err
	}

	resumen := &ResumenSincronizacion{PagosTotal: len(pagos)}

	// Dedup preservando orden de aparición.
	vistas := make(map[string]bool)
	var numeros []string
	for _, pago := range pagos {
		numero, ok := pago.ReferenciaFactura()
		if !ok {
			resumen.PagosSinFactura++
			s.Log.WithFields(logrus.Fields{
				"corrida": corrida,
				"pago":    pago.ID.String(),
			}).Debug("pago sin referencia a factura")
			continue
		}
		resumen.PagosConFactura++
		if !vistas[numero] {
			vistas[numero] = true
			numeros = append(numeros, numero)
		}
	}
	resumen.Total = len(numeros)

	for i, numero := range numeros {
		if i > 0 && s.EsperaEntreFacturas > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.EsperaEntreFacturas):
			}
		}
		s.sincronizarFactura(ctx, corrida, numero, resumen)
	}

	s.Log.WithFields(logrus.Fields{
		"corrida":      corrida,
		"total":        resumen.Total,
		"creadas":      resumen.Creadas,
		"actualizadas": resumen.Actualizadas,
		"errores":      resumen.Errores,
	}).Info("sincronización de facturas finalizada")

	return resumen, nil
}

// sincronizarFactura procesa una factura; cualquier falla se cuenta y
// no corta el resto del lote.
func (s *Service) sincronizarFactura(ctx context.Context, corrida, numero string, resumen *ResumenSincronizacion) {
	factura, err := s.Cliente.ObtenerFacturaPorID(ctx, numero)
	if err != nil {
		resumen.Errores++
		config.LogError(s.Log, "sincronizacion", "sincronizarFactura", "no se pudo traer la factura",
			logrus.Fields{"corrida": corrida, "factura": numero}, err)
		return
	}
	if factura == nil {
		resumen.Errores++
		s.Log.WithFields(logrus.Fields{
			"corrida": corrida,
			"factura": numero,
		}).Warn("la factura referenciada no existe en la API externa")
		return
	}

	if factura.Vendedor == nil || strings.TrimSpace(factura.Vendedor.Nombre) == "" {
		resumen.SinVendedor++
		return
	}
	nombre := strings.TrimSpace(factura.Vendedor.Nombre)
	if !s.Vendedores.Contiene(nombre) {
		resumen.VendedorInvalido++
		s.Log.WithFields(logrus.Fields{
			"corrida":  corrida,
			"factura":  numero,
			"vendedor": nombre,
		}).Debug("vendedor fuera de la lista habilitada, factura descartada")
		return
	}

	registro := proyectarFactura(numero, nombre, factura)
	creada, err := s.Repo.GuardarConMerge(registro)
	if err != nil {
		resumen.Errores++
		config.LogError(s.Log, "sincronizacion", "sincronizarFactura", "no se pudo persistir la factura",
			logrus.Fields{"corrida": corrida, "factura": numero}, err)
		return
	}
	if creada {
		resumen.Creadas++
	} else {
		resumen.Actualizadas++
	}
}

// proyectarFactura normaliza la factura externa al registro local.
func proyectarFactura(numero, nombreVendedor string, factura *alegra.Factura) *FacturaComision {
	items := make([]ItemFactura, 0, len(factura.Items))
	for _, item := range factura.Items {
		items = append(items, ItemFactura{
			NumeroFactura: numero,
			Descripcion:   item.Descripcion,
			Subtotal:      item.SubtotalNumerico(),
		})
	}

	fecha, err := time.Parse("2006-01-02", factura.Fecha)
	if err != nil {
		fecha = time.Now()
	}

	return &FacturaComision{
		NumeroFactura:  numero,
		Vendedor:       nombreVendedor,
		FechaEmision:   fecha,
		Items:          items,
		SincronizadaEn: time.Now(),
	}
}
