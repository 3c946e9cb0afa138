package comisionperiodo

// AjusteDTO es el cuerpo de POST /comisiones/ajuste.
type AjusteDTO struct {
	Vendedor string  `json:"vendedor" validate:"required"`
	Periodo  string  `json:"periodo" validate:"required"`
	Tipo     string  `json:"tipo" validate:"required,oneof=positivo negativo"`
	Monto    float64 `json:"monto" validate:"required,gt=0"`
	Motivo   string  `json:"motivo" validate:"required"`
}
