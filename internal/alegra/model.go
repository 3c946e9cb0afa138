package alegra

import "encoding/json"

// Vendedor es el vendedor asociado a una factura en Alegra.
type Vendedor struct {
	ID     json.Number `json:"id"`
	Nombre string      `json:"name"`
}

// Item es un renglón de factura. Los montos llegan como número o como
// string según la versión de la API, por eso json.Number.
type Item struct {
	Descripcion string      `json:"description"`
	Precio      json.Number `json:"price"`
	Cantidad    json.Number `json:"quantity"`
	Subtotal    json.Number `json:"subtotal"`
}

// SubtotalNumerico devuelve el subtotal parseado; si el campo no vino,
// lo reconstruye como precio × cantidad.
func (i Item) SubtotalNumerico() float64 {
	if sub, err := i.Subtotal.Float64(); err == nil && sub != 0 {
		return sub
	}
	precio, errP := i.Precio.Float64()
	cantidad, errC := i.Cantidad.Float64()
	if errP != nil || errC != nil {
		return 0
	}
	return precio * cantidad
}

// Factura es la factura tal como la devuelve la API externa.
type Factura struct {
	ID       json.Number `json:"id"`
	Fecha    string      `json:"date"`
	Estado   string      `json:"status"`
	Vendedor *Vendedor   `json:"seller"`
	Items    []Item      `json:"items"`
}

// FacturaRef es la referencia mínima a una factura dentro de un pago.
type FacturaRef struct {
	ID json.Number `json:"id"`
}

// Pago es un pago registrado en Alegra. La referencia a la factura
// aparece con al menos tres formas distintas según el origen del pago;
// el DTO las modela todas y ReferenciaFactura define el orden de sondeo.
type Pago struct {
	ID        json.Number  `json:"id"`
	Fecha     string       `json:"date"`
	Factura   *FacturaRef  `json:"invoice"`
	FacturaID json.Number  `json:"invoiceId"`
	Facturas  []FacturaRef `json:"invoices"`
}

// ReferenciaFactura sondea las formas conocidas en orden fijo:
// invoice.id, luego invoiceId, luego invoices[0].id. Devuelve false
// cuando el pago no referencia ninguna factura.
func (p Pago) ReferenciaFactura() (string, bool) {
	if p.Factura != nil && p.Factura.ID.String() != "" {
		return p.Factura.ID.String(), true
	}
	if p.FacturaID.String() != "" {
		return p.FacturaID.String(), true
	}
	if len(p.Facturas) > 0 && p.Facturas[0].ID.String() != "" {
		return p.Facturas[0].ID.String(), true
	}
	return "", false
}
