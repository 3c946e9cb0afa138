package vendedor

// ResumenVendedorDTO combina, solo a nivel de presentación, la comisión
// por categorías del período con la comisión de flete. Las dos pistas
// de auditoría quedan separadas en el banco.
type ResumenVendedorDTO struct {
	Vendedor      string  `json:"vendedor"`
	Periodo       string  `json:"periodo"`
	Estado        string  `json:"estado"`
	TotalCobrado  float64 `json:"totalCobrado"`
	TotalComision float64 `json:"totalComision"`
	TotalFinal    float64 `json:"totalFinal"`
	TotalFlete    float64 `json:"totalFlete"`
	ComisionFlete float64 `json:"comisionFlete"`
	TotalAPagar   float64 `json:"totalAPagar"`
}
