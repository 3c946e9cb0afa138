package alegra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// La API externa no acepta páginas de más de 30 registros.
	LimiteMaximoPagina = 30

	baseURLPorDefecto = "https://api.alegra.com/api/v1"
)

// Rangos de días habilitados para el corte de búsqueda.
var diasPermitidos = map[int]bool{1: true, 3: true, 5: true}

// ErrCredencialesFaltantes indica que no hay email o API key configurados.
var ErrCredencialesFaltantes = errors.New("alegra: faltan credenciales (email y api key son obligatorios)")

// ErrParametroInvalido agrupa los rechazos de validación previos a todo I/O.
var ErrParametroInvalido = errors.New("alegra: parámetro inválido")

// APIError es una respuesta no-2xx de la API externa. Aborta la
// operación en curso; el que llama ve status y cuerpo.
type APIError struct {
	Status int
	Cuerpo string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alegra: respuesta %d: %s", e.Status, e.Cuerpo)
}

// Client es el cliente HTTP de la API de facturación.
type Client struct {
	BaseURL string
	// Pausa entre páginas para no saturar la API externa.
	EsperaEntrePaginas time.Duration

	email  string
	apiKey string
	http   *http.Client
	log    *logrus.Logger
}

// NewClient valida credenciales y arma el cliente. baseURL vacío usa la
// URL productiva de Alegra.
func NewClient(baseURL, email, apiKey string, log *logrus.Logger) (*Client, error) {
	if email == "" || apiKey == "" {
		return nil, ErrCredencialesFaltantes
	}
	if baseURL == "" {
		baseURL = baseURLPorDefecto
	}
	return &Client{
		BaseURL:            baseURL,
		EsperaEntrePaginas: 300 * time.Millisecond,
		email:              email,
		apiKey:             apiKey,
		http:               &http.Client{Timeout: 30 * time.Second},
		log:                log,
	}, nil
}

// ObtenerFacturas lista facturas abiertas emitidas desde hoy−diasAtras,
// paginando por offset hasta juntar maxTotal o agotar resultados.
func (c *Client) ObtenerFacturas(ctx context.Context, diasAtras, limitePagina, maxTotal int) ([]Factura, error) {
	if !diasPermitidos[diasAtras] {
		return nil, fmt.Errorf("%w: diasAtras debe ser 1, 3 o 5 (recibido %d)", ErrParametroInvalido, diasAtras)
	}
	if limitePagina < 1 || limitePagina > LimiteMaximoPagina {
		return nil, fmt.Errorf("%w: limitePagina debe estar entre 1 y %d (recibido %d)", ErrParametroInvalido, LimiteMaximoPagina, limitePagina)
	}
	if maxTotal < 1 {
		return nil, fmt.Errorf("%w: maxTotal debe ser al menos 1 (recibido %d)", ErrParametroInvalido, maxTotal)
	}

	corte := fechaDeCorte(diasAtras)
	var acumuladas []Factura
	offset := 0

	for len(acumuladas) < maxTotal {
		restantes := maxTotal - len(acumuladas)
		limite := limitePagina
		if restantes < limite {
			limite = restantes
		}

		q := url.Values{}
		q.Set("date_afterOrNow", corte)
		q.Set("status", "open")
		q.Set("order_direction", "DESC")
		q.Set("order_field", "date")
		q.Set("limit", strconv.Itoa(limite))
		q.Set("start", strconv.Itoa(offset))

		var pagina []Factura
		if err := c.hacerGET(ctx, "/invoices", q, &pagina); err != nil {
			return nil, err
		}

		acumuladas = append(acumuladas, pagina...)
		offset += len(pagina)

		// Página vacía o más corta que lo pedido: no hay más resultados.
		if len(pagina) == 0 || len(pagina) < limite {
			break
		}
		if len(acumuladas) >= maxTotal {
			break
		}
		if c.EsperaEntrePaginas > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.EsperaEntrePaginas):
			}
		}
	}

	c.log.WithFields(logrus.Fields{
		"modulo":   "alegra",
		"facturas": len(acumuladas),
		"corte":    corte,
	}).Debug("listado de facturas completado")

	return acumuladas, nil
}

// ObtenerPagos lista los pagos desde hoy−diasAtras, en una sola página
// del tamaño máximo que permite la API.
func (c *Client) ObtenerPagos(ctx context.Context, diasAtras int) ([]Pago, error) {
	if diasAtras < 1 {
		return nil, fmt.Errorf("%w: diasAtras debe ser al menos 1 (recibido %d)", ErrParametroInvalido, diasAtras)
	}

	q := url.Values{}
	q.Set("date_afterOrNow", fechaDeCorte(diasAtras))
	q.Set("order_direction", "DESC")
	q.Set("order_field", "date")
	q.Set("limit", strconv.Itoa(LimiteMaximoPagina))

	var pagos []Pago
	if err := c.hacerGET(ctx, "/payments", q, &pagos); err != nil {
		return nil, err
	}
	return pagos, nil
}

// ObtenerFacturaPorID busca una factura puntual. Un 404 devuelve
// (nil, nil): es un faltante recuperable, no un error.
func (c *Client) ObtenerFacturaPorID(ctx context.Context, id string) (*Factura, error) {
	req, err := c.nuevaRequest(ctx, "/invoices/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.log.WithField("factura", id).Warn("factura no encontrada en la API externa")
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cuerpo, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Cuerpo: string(cuerpo)}
	}

	var factura Factura
	if err := json.NewDecoder(resp.Body).Decode(&factura); err != nil {
		return nil, err
	}
	return &factura, nil
}

func (c *Client) nuevaRequest(ctx context.Context, ruta string, q url.Values) (*http.Request, error) {
	u := c.BaseURL + ruta
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.email, c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) hacerGET(ctx context.Context, ruta string, q url.Values, destino any) error {
	req, err := c.nuevaRequest(ctx, ruta, q)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cuerpo, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Cuerpo: string(cuerpo)}
	}

	return json.NewDecoder(resp.Body).Decode(destino)
}

// fechaDeCorte trunca hoy−dias a medianoche local, en el formato que
// espera date_afterOrNow.
func fechaDeCorte(dias int) string {
	t := time.Now().AddDate(0, 0, -dias)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).Format("2006-01-02")
}
