package notificacion

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// EnviarAlertaSincronizacion avisa por webhook que una corrida de
// sincronización terminó con errores. Best effort: una falla acá solo
// se loguea.
func EnviarAlertaSincronizacion(url string, errores, total int, log *logrus.Logger) {
	payload := map[string]any{
		"mensaje": "Alerta: la sincronización de facturas terminó con errores",
		"errores": errores,
		"total":   total,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.WithError(err).Warn("no se pudo enviar el webhook de alerta")
		return
	}
	defer resp.Body.Close()
}
