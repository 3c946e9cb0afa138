package alegra

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenciaFacturaSondeaLasFormasConocidas(t *testing.T) {
	casos := []struct {
		nombre   string
		crudo    string
		esperado string
		presente bool
	}{
		{"objeto invoice anidado", `{"id":1,"invoice":{"id":42}}`, "42", true},
		{"campo plano invoiceId", `{"id":2,"invoiceId":"77"}`, "77", true},
		{"lista invoices", `{"id":3,"invoices":[{"id":15},{"id":16}]}`, "15", true},
		{"invoice.id gana sobre invoiceId", `{"id":4,"invoice":{"id":1},"invoiceId":2}`, "1", true},
		{"sin referencia", `{"id":5,"date":"2025-01-02"}`, "", false},
	}

	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			var pago Pago
			require.NoError(t, json.Unmarshal([]byte(caso.crudo), &pago))

			id, ok := pago.ReferenciaFactura()
			assert.Equal(t, caso.presente, ok)
			assert.Equal(t, caso.esperado, id)
		})
	}
}

func TestSubtotalNumerico(t *testing.T) {
	item := Item{Subtotal: "1500.50"}
	assert.InDelta(t, 1500.50, item.SubtotalNumerico(), 0.001)

	// Sin subtotal explícito se reconstruye como precio × cantidad.
	item = Item{Precio: "200", Cantidad: "3"}
	assert.InDelta(t, 600, item.SubtotalNumerico(), 0.001)

	item = Item{Subtotal: "no-numerico"}
	assert.Zero(t, item.SubtotalNumerico())
}
