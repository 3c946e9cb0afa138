package vendedor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crmventas/api-comisiones/internal/comisionperiodo"
	"github.com/crmventas/api-comisiones/internal/flete"
	"github.com/gorilla/mux"
)

// Handler expone la lista de vendedores habilitados y el resumen de
// comisiones por período.
type Handler struct {
	Lista  *Whitelist
	Ledger *comisionperiodo.Ledger
	Fletes flete.Repository
}

func NewHandler(lista *Whitelist, ledger *comisionperiodo.Ledger, fletes flete.Repository) *Handler {
	return &Handler{Lista: lista, Ledger: ledger, Fletes: fletes}
}

// Listar trata GET /vendedores
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Lista.Nombres())
}

// Resumen trata GET /vendedores/{vendedor}/{periodo}/resumen
func (h *Handler) Resumen(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	nombre := vars["vendedor"]
	periodo := vars["periodo"]

	if !h.Lista.Contiene(nombre) {
		http.Error(w, "Vendedor fuera de la lista habilitada", http.StatusNotFound)
		return
	}

	comision, err := h.Ledger.Obtener(nombre, periodo)
	if err != nil {
		switch {
		case errors.Is(err, comisionperiodo.ErrPeriodoInvalido):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, comisionperiodo.ErrNoEncontrada):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Error al buscar la comisión", http.StatusInternalServerError)
		}
		return
	}

	resumen := ResumenVendedorDTO{
		Vendedor:      comision.Vendedor,
		Periodo:       comision.Periodo,
		Estado:        comision.Estado,
		TotalCobrado:  comision.TotalCobrado,
		TotalComision: comision.TotalComision,
		TotalFinal:    comision.TotalFinal,
		TotalAPagar:   comision.TotalFinal,
	}

	// La comisión de flete puede no existir para el período; el resumen
	// sale igual con flete en cero.
	comisionFlete, err := h.Fletes.BuscarPorVendedorYPeriodo(comision.Vendedor, periodo)
	if err != nil {
		http.Error(w, "Error al buscar la comisión de flete", http.StatusInternalServerError)
		return
	}
	if comisionFlete != nil {
		resumen.TotalFlete = comisionFlete.TotalFlete
		resumen.ComisionFlete = comisionFlete.MontoComision
		resumen.TotalAPagar = comision.TotalFinal + comisionFlete.MontoComision
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resumen)
}
