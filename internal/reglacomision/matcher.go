package reglacomision

import (
	"sort"
	"strings"
)

// MatchCategoria clasifica la descripción de un renglón contra las
// reglas activas: gana la primera categoría cuya palabra clave está
// contenida en la descripción normalizada (minúsculas, sin espacios en
// los bordes).
//
// El orden de recorrido es determinístico: claves por longitud
// descendente y después alfabéticamente, de modo que entre palabras
// clave superpuestas gana la más específica.
func MatchCategoria(descripcion string, reglas map[string]float64) (string, bool) {
	normalizada := strings.ToLower(strings.TrimSpace(descripcion))
	if normalizada == "" || len(reglas) == 0 {
		return "", false
	}

	claves := make([]string, 0, len(reglas))
	for clave := range reglas {
		claves = append(claves, clave)
	}
	sort.Slice(claves, func(i, j int) bool {
		if len(claves[i]) != len(claves[j]) {
			return len(claves[i]) > len(claves[j])
		}
		return claves[i] < claves[j]
	})

	for _, clave := range claves {
		if strings.Contains(normalizada, strings.ToLower(clave)) {
			return clave, true
		}
	}
	return "", false
}
