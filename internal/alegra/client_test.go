package alegra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggerSilencioso() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func nuevoClienteDePrueba(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "cuenta@empresa.com", "clave-api", loggerSilencioso())
	require.NoError(t, err)
	c.EsperaEntrePaginas = 0
	return c, srv
}

func facturasDePrueba(n int) []Factura {
	fs := make([]Factura, n)
	for i := range fs {
		fs[i] = Factura{ID: json.Number(fmt.Sprintf("%d", i+1)), Estado: "open"}
	}
	return fs
}

func TestNewClientSinCredenciales(t *testing.T) {
	_, err := NewClient("", "", "clave", loggerSilencioso())
	assert.ErrorIs(t, err, ErrCredencialesFaltantes)

	_, err = NewClient("", "cuenta@empresa.com", "", loggerSilencioso())
	assert.ErrorIs(t, err, ErrCredencialesFaltantes)
}

func TestObtenerFacturasRechazaParametrosSinLlamarALaRed(t *testing.T) {
	llamadas := 0
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		llamadas++
		_ = json.NewEncoder(w).Encode([]Factura{})
	})

	casos := []struct {
		nombre   string
		dias     int
		limite   int
		maxTotal int
	}{
		{"dias fuera del rango permitido", 2, 30, 10},
		{"dias cero", 0, 30, 10},
		{"limite cero", 3, 0, 10},
		{"limite mayor al tope de la API", 3, 31, 10},
		{"maxTotal cero", 3, 30, 0},
	}
	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			_, err := c.ObtenerFacturas(context.Background(), caso.dias, caso.limite, caso.maxTotal)
			assert.ErrorIs(t, err, ErrParametroInvalido)
		})
	}
	assert.Equal(t, 0, llamadas, "la validación debe rechazar antes de cualquier request")
}

func TestObtenerFacturasPaginaConOffsets(t *testing.T) {
	var offsets []string
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offsets = append(offsets, q.Get("start"))

		assert.Equal(t, "open", q.Get("status"))
		assert.Equal(t, "DESC", q.Get("order_direction"))
		assert.Equal(t, "date", q.Get("order_field"))

		switch q.Get("start") {
		case "0", "30":
			assert.Equal(t, "30", q.Get("limit"))
			_ = json.NewEncoder(w).Encode(facturasDePrueba(30))
		default:
			// Última página: solo se piden los 15 que faltan.
			assert.Equal(t, "15", q.Get("limit"))
			_ = json.NewEncoder(w).Encode(facturasDePrueba(15))
		}
	})

	facturas, err := c.ObtenerFacturas(context.Background(), 3, 30, 75)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "30", "60"}, offsets)
	assert.Len(t, facturas, 75)
}

func TestObtenerFacturasCortaEnPaginaCorta(t *testing.T) {
	requests := 0
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(facturasDePrueba(7))
	})

	facturas, err := c.ObtenerFacturas(context.Background(), 5, 30, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, requests, "una página corta es la última")
	assert.Len(t, facturas, 7)
}

func TestObtenerFacturasUltimaPaginaAjustaLimite(t *testing.T) {
	var limites []string
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limites = append(limites, q.Get("limit"))
		if q.Get("start") == "0" {
			_ = json.NewEncoder(w).Encode(facturasDePrueba(10))
		} else {
			_ = json.NewEncoder(w).Encode(facturasDePrueba(5))
		}
	})

	facturas, err := c.ObtenerFacturas(context.Background(), 3, 10, 15)
	require.NoError(t, err)

	// La segunda página solo pide lo que falta para llegar a maxTotal.
	assert.Equal(t, []string{"10", "5"}, limites)
	assert.Len(t, facturas, 15)
}

func TestObtenerFacturasCancelaDuranteLaEsperaEntrePaginas(t *testing.T) {
	ctx, cancelar := context.WithCancel(context.Background())
	requests := 0
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		cancelar()
		_ = json.NewEncoder(w).Encode(facturasDePrueba(30))
	})
	c.EsperaEntrePaginas = time.Hour

	_, err := c.ObtenerFacturas(ctx, 3, 30, 90)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, requests, "la cancelación corta antes de pedir la página siguiente")
}

func TestObtenerFacturasAbortaEnErrorDeLaAPI(t *testing.T) {
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "límite de uso excedido", http.StatusTooManyRequests)
	})

	_, err := c.ObtenerFacturas(context.Background(), 1, 30, 10)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Contains(t, apiErr.Cuerpo, "límite de uso excedido")
}

func TestObtenerPagosUsaElTopeDeLaAPI(t *testing.T) {
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("limit"))

		usuario, clave, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "cuenta@empresa.com", usuario)
		assert.Equal(t, "clave-api", clave)

		_ = json.NewEncoder(w).Encode([]Pago{{ID: "9"}})
	})

	pagos, err := c.ObtenerPagos(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, pagos, 1)
}

func TestObtenerFacturaPorIDNoEncontrada(t *testing.T) {
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	factura, err := c.ObtenerFacturaPorID(context.Background(), "999")
	require.NoError(t, err, "un 404 es un faltante recuperable, no un error")
	assert.Nil(t, factura)
}

func TestObtenerFacturaPorIDErrorDuro(t *testing.T) {
	c, _ := nuevoClienteDePrueba(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ObtenerFacturaPorID(context.Background(), "1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}
