package main

import (
	"net/http"
	"os"

	"github.com/crmventas/api-comisiones/internal/alegra"
	"github.com/crmventas/api-comisiones/internal/comisionperiodo"
	"github.com/crmventas/api-comisiones/internal/config"
	"github.com/crmventas/api-comisiones/internal/flete"
	"github.com/crmventas/api-comisiones/internal/reglacomision"
	"github.com/crmventas/api-comisiones/internal/sincronizacion"
	"github.com/crmventas/api-comisiones/internal/utils/db"
	"github.com/crmventas/api-comisiones/internal/vendedor"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	_ = godotenv.Load()
	log := config.GetLogger()

	database, err := db.DesdeEnv()
	if err != nil {
		log.WithError(err).Fatal("error al conectar al banco")
	}

	if err := sincronizacion.Migrate(database); err != nil {
		log.WithError(err).Fatal("error en la migración de facturas")
	}
	if err := reglacomision.Migrate(database); err != nil {
		log.WithError(err).Fatal("error en la migración de reglas")
	}
	if err := comisionperiodo.Migrate(database); err != nil {
		log.WithError(err).Fatal("error en la migración de comisiones")
	}
	if err := flete.Migrate(database); err != nil {
		log.WithError(err).Fatal("error en la migración de fletes")
	}

	// Credenciales de la API externa: su ausencia es un error de
	// configuración fatal, sin reintentos.
	cliente, err := alegra.NewClient(
		os.Getenv("ALEGRA_BASE_URL"),
		os.Getenv("ALEGRA_EMAIL"),
		os.Getenv("ALEGRA_API_KEY"),
		log,
	)
	if err != nil {
		log.WithError(err).Fatal("credenciales de la API de facturación ausentes")
	}

	habilitados := vendedor.DesdeEnv()
	candados := comisionperiodo.NewCandados()

	facturasRepo := sincronizacion.NewRepository(database)
	reglasRepo := reglacomision.NewRepository(database)
	comisionesRepo := comisionperiodo.NewRepository(database)
	fletesRepo := flete.NewRepository(database)

	sincronizador := sincronizacion.NewService(cliente, facturasRepo, habilitados, log)
	calculadora := comisionperiodo.NewCalculadora(facturasRepo, reglasRepo, comisionesRepo, habilitados, candados, log)
	ledger := comisionperiodo.NewLedger(comisionesRepo, candados, log)
	calculadoraFlete := flete.NewCalculadora(facturasRepo, fletesRepo, habilitados, log)

	sincronizacionHandler := sincronizacion.NewHandler(sincronizador, os.Getenv("SYNC_WEBHOOK_URL"))
	reglasHandler := reglacomision.NewHandler(reglasRepo)
	comisionesHandler := comisionperiodo.NewHandler(calculadora, ledger)
	fleteHandler := flete.NewHandler(calculadoraFlete, fletesRepo)
	vendedoresHandler := vendedor.NewHandler(habilitados, ledger, fletesRepo)

	r := mux.NewRouter()

	// Sincronización contra la API externa
	r.HandleFunc("/sincronizar-facturas", sincronizacionHandler.Sincronizar).Methods("POST")

	// Comisiones por período
	r.HandleFunc("/comisiones/calcular/{periodo}", comisionesHandler.Calcular).Methods("POST")
	r.HandleFunc("/comisiones/cerrar/{periodo}", comisionesHandler.Cerrar).Methods("POST")
	r.HandleFunc("/comisiones/ajuste", comisionesHandler.Ajustar).Methods("POST")
	r.HandleFunc("/comisiones/pagar/{vendedor}/{periodo}", comisionesHandler.Pagar).Methods("POST")

	// Comisiones de flete (pista paralela)
	r.HandleFunc("/comisiones/flete/calcular/{periodo}", fleteHandler.Calcular).Methods("POST")
	r.HandleFunc("/comisiones/flete/{vendedor}/{periodo}", fleteHandler.Obtener).Methods("GET")

	r.HandleFunc("/comisiones/{vendedor}/{periodo}", comisionesHandler.Obtener).Methods("GET")

	// Reglas de comisión (administración)
	r.HandleFunc("/reglas-comision", reglasHandler.Crear).Methods("POST")
	r.HandleFunc("/reglas-comision", reglasHandler.Listar).Methods("GET")
	r.HandleFunc("/reglas-comision/{id}", reglasHandler.Actualizar).Methods("PUT")
	r.HandleFunc("/reglas-comision/{id}", reglasHandler.Eliminar).Methods("DELETE")

	// Vendedores
	r.HandleFunc("/vendedores", vendedoresHandler.Listar).Methods("GET")
	r.HandleFunc("/vendedores/{vendedor}/{periodo}/resumen", vendedoresHandler.Resumen).Methods("GET")

	puerto := os.Getenv("PORT")
	if puerto == "" {
		puerto = "8080"
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	log.WithField("puerto", puerto).Info("servidor escuchando")
	log.Fatal(http.ListenAndServe(":"+puerto, handler))
}
