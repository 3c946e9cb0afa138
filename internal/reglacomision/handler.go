package reglacomision

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// Handler gerencia las rutas de administración de reglas.
type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// Crear trata POST /reglas-comision
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var regla ReglaComision
	if err := json.NewDecoder(r.Body).Decode(&regla); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if regla.Categoria == "" {
		http.Error(w, "La categoría es obligatoria", http.StatusBadRequest)
		return
	}
	if regla.Porcentaje < 0 || regla.Porcentaje > 100 {
		http.Error(w, "El porcentaje debe estar entre 0 y 100", http.StatusBadRequest)
		return
	}

	regla.ID = 0
	if err := h.Repo.Crear(&regla); err != nil {
		http.Error(w, "Error al crear la regla", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(regla)
}

// Listar trata GET /reglas-comision
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	reglas, err := h.Repo.ListarTodas()
	if err != nil {
		http.Error(w, "Error al buscar reglas", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reglas)
}

// Actualizar trata PUT /reglas-comision/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de regla inválido", http.StatusBadRequest)
		return
	}

	existente, err := h.Repo.BuscarPorID(uint(id))
	if err != nil {
		http.Error(w, "Regla no encontrada", http.StatusNotFound)
		return
	}

	var payload ReglaComision
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if payload.Porcentaje < 0 || payload.Porcentaje > 100 {
		http.Error(w, "El porcentaje debe estar entre 0 y 100", http.StatusBadRequest)
		return
	}

	existente.Categoria = payload.Categoria
	existente.Porcentaje = payload.Porcentaje
	existente.Activa = payload.Activa

	if err := h.Repo.Actualizar(existente); err != nil {
		http.Error(w, "Error al actualizar la regla", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}

// Eliminar trata DELETE /reglas-comision/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de regla inválido", http.StatusBadRequest)
		return
	}

	existente, err := h.Repo.BuscarPorID(uint(id))
	if err != nil {
		http.Error(w, "Regla no encontrada", http.StatusNotFound)
		return
	}

	if err := h.Repo.Eliminar(existente); err != nil {
		http.Error(w, "Error al eliminar la regla", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
