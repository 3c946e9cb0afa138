package comisionperiodo

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Handler gerencia las rutas de comisiones por período.
type Handler struct {
	Calculadora *Calculadora
	Ledger      *Ledger
	validar     *validator.Validate
}

func NewHandler(calculadora *Calculadora, ledger *Ledger) *Handler {
	return &Handler{
		Calculadora: calculadora,
		Ledger:      ledger,
		validar:     validator.New(),
	}
}

// Calcular trata POST /comisiones/calcular/{periodo}
func (h *Handler) Calcular(w http.ResponseWriter, r *http.Request) {
	periodo := mux.Vars(r)["periodo"]

	comisiones, err := h.Calculadora.CalcularPeriodo(r.Context(), periodo)
	if err != nil {
		responderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comisiones)
}

// Obtener trata GET /comisiones/{vendedor}/{periodo}
func (h *Handler) Obtener(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	c, err := h.Ledger.Obtener(vars["vendedor"], vars["periodo"])
	if err != nil {
		responderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// Cerrar trata POST /comisiones/cerrar/{periodo}
func (h *Handler) Cerrar(w http.ResponseWriter, r *http.Request) {
	periodo := mux.Vars(r)["periodo"]

	cerradas, err := h.Ledger.Cerrar(periodo)
	if err != nil {
		responderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cerradas)
}

// Ajustar trata POST /comisiones/ajuste
func (h *Handler) Ajustar(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var dto AjusteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validar.Struct(dto); err != nil {
		http.Error(w, "Ajuste inválido: vendedor, período, tipo (positivo/negativo), monto > 0 y motivo son obligatorios", http.StatusBadRequest)
		return
	}

	c, err := h.Ledger.AgregarAjuste(dto.Vendedor, dto.Periodo, dto.Tipo, dto.Monto, dto.Motivo)
	if err != nil {
		responderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// Pagar trata POST /comisiones/pagar/{vendedor}/{periodo}
func (h *Handler) Pagar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	c, err := h.Ledger.Pagar(vars["vendedor"], vars["periodo"])
	if err != nil {
		responderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// responderError traduce la taxonomía de errores del dominio a HTTP.
func responderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPeriodoInvalido), errors.Is(err, ErrAjusteInvalido):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNoEncontrada):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEstado):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrSinReglas):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "Error interno", http.StatusInternalServerError)
	}
}
