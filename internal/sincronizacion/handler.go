package sincronizacion

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crmventas/api-comisiones/internal/alegra"
	"github.com/crmventas/api-comisiones/internal/notificacion"
)

// Handler expone la sincronización por HTTP.
type Handler struct {
	Service    *Service
	WebhookURL string
}

func NewHandler(service *Service, webhookURL string) *Handler {
	return &Handler{Service: service, WebhookURL: webhookURL}
}

// Sincronizar trata POST /sincronizar-facturas[?full=true]
func (h *Handler) Sincronizar(w http.ResponseWriter, r *http.Request) {
	completa := r.URL.Query().Get("full") == "true"

	resumen, err := h.Service.Sincronizar(r.Context(), completa)
	if err != nil {
		var apiErr *alegra.APIError
		if errors.As(err, &apiErr) {
			http.Error(w, "La API de facturación respondió con error", http.StatusBadGateway)
			return
		}
		http.Error(w, "Error al sincronizar facturas", http.StatusInternalServerError)
		return
	}

	if resumen.Errores > 0 && h.WebhookURL != "" {
		notificacion.EnviarAlertaSincronizacion(h.WebhookURL, resumen.Errores, resumen.Total, h.Service.Log)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resumen)
}
