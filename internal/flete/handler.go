package flete

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crmventas/api-comisiones/internal/comisionperiodo"
	"github.com/gorilla/mux"
)

// Handler gerencia las rutas de comisión de flete.
type Handler struct {
	Calculadora *Calculadora
	Repo        Repository
}

func NewHandler(calculadora *Calculadora, repo Repository) *Handler {
	return &Handler{Calculadora: calculadora, Repo: repo}
}

// Calcular trata POST /comisiones/flete/calcular/{periodo}
func (h *Handler) Calcular(w http.ResponseWriter, r *http.Request) {
	periodo := mux.Vars(r)["periodo"]

	comisiones, err := h.Calculadora.CalcularPeriodo(r.Context(), periodo)
	if err != nil {
		if errors.Is(err, comisionperiodo.ErrPeriodoInvalido) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Error al calcular comisiones de flete", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comisiones)
}

// Obtener trata GET /comisiones/flete/{vendedor}/{periodo}
func (h *Handler) Obtener(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	c, err := h.Repo.BuscarPorVendedorYPeriodo(vars["vendedor"], vars["periodo"])
	if err != nil {
		http.Error(w, "Error al buscar la comisión de flete", http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.Error(w, "Comisión de flete no encontrada", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}
