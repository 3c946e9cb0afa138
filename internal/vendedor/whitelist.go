package vendedor

import (
	"os"
	"sort"
	"strings"
)

// Vendedores habilitados para comisionar cuando no hay configuración.
var porDefecto = []string{"Guille", "Matias", "Fede"}

// Whitelist es la enumeración fija de vendedores que comisionan.
// Los registros de vendedores fuera de la lista se descartan durante la
// sincronización y el cálculo, nunca se persisten como comisión.
type Whitelist struct {
	nombres map[string]string // clave normalizada → nombre original
}

func NewWhitelist(nombres []string) *Whitelist {
	w := &Whitelist{nombres: make(map[string]string, len(nombres))}
	for _, n := range nombres {
		limpio := strings.TrimSpace(n)
		if limpio == "" {
			continue
		}
		w.nombres[strings.ToLower(limpio)] = limpio
	}
	return w
}

// DesdeEnv lee VENDEDORES_HABILITADOS (separados por coma); si falta,
// usa la lista por defecto.
func DesdeEnv() *Whitelist {
	crudo := os.Getenv("VENDEDORES_HABILITADOS")
	if strings.TrimSpace(crudo) == "" {
		return NewWhitelist(porDefecto)
	}
	return NewWhitelist(strings.Split(crudo, ","))
}

func (w *Whitelist) Contiene(nombre string) bool {
	_, ok := w.nombres[strings.ToLower(strings.TrimSpace(nombre))]
	return ok
}

func (w *Whitelist) Nombres() []string {
	lista := make([]string, 0, len(w.nombres))
	for _, n := range w.nombres {
		lista = append(lista, n)
	}
	sort.Strings(lista)
	return lista
}
