package comisionperiodo

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevoLedgerDePrueba(repo Repository) *Ledger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewLedger(repo, NewCandados(), log)
}

func sembrarComision(t *testing.T, repo *repoComisionFalso, vendedor, periodo, estado string, totalComision float64) *ComisionPeriodo {
	t.Helper()
	c := &ComisionPeriodo{
		Vendedor:      vendedor,
		Periodo:       periodo,
		TotalCobrado:  totalComision * 10,
		TotalComision: totalComision,
		TotalFinal:    totalComision,
	}
	require.NoError(t, repo.GuardarCalculada(c))
	if estado != EstadoCalculada {
		repo.porID[c.ID].Estado = estado
	}
	return c
}

func TestCerrarPasaDeCalculadaACerrada(t *testing.T) {
	repo := nuevoRepoComisionFalso()
	sembrarComision(t, repo, "Guille", "2025-01", EstadoCalculada, 500)
	sembrarComision(t, repo, "Matias", "2025-01", EstadoCalculada, 200)

	cerradas, err := nuevoLedgerDePrueba(repo).Cerrar("2025-01")
	require.NoError(t, err)
	assert.Len(t, cerradas, 2)

	for _, c := range repo.porID {
		assert.Equal(t, EstadoCerrada, c.Estado)
	}
}

func TestCerrarSinCalculadasFalla(t *testing.T) {
	ledger := nuevoLedgerDePrueba(nuevoRepoComisionFalso())

	_, err := ledger.Cerrar("2025-01")
	assert.ErrorIs(t, err, ErrEstado)
}

func TestCerrarPeriodoPagadoFallaSinMutar(t *testing.T) {
	repo := nuevoRepoComisionFalso()
	c := sembrarComision(t, repo, "Guille", "2025-01", EstadoPagada, 500)

	_, err := nuevoLedgerDePrueba(repo).Cerrar("2025-01")
	assert.ErrorIs(t, err, ErrEstado)
	assert.Equal(t, EstadoPagada, repo.porID[c.ID].Estado, "el registro queda intacto")
}

func TestCerrarNoMutaNadaSiUnVendedorYaCerro(t *testing.T) {
	repo := nuevoRepoComisionFalso()
	calculada := sembrarComision(t, repo, "Guille", "2025-01", EstadoCalculada, 500)
	sembrarComision(t, repo, "Matias", "2025-01", EstadoCerrada, 200)

	_, err := nuevoLedgerDePrueba(repo).Cerrar("2025-01")
	assert.ErrorIs(t, err, ErrEstado)
	assert.Equal(t, EstadoCalculada, repo.porID[calculada.ID].Estado, "ningún registro cambia de estado")
}

func TestAgregarAjusteRecalculaElTotalFinal(t *testing.T) {
	repo := nuevoRepoComisionFalso()
	c := sembrarComision(t, repo, "Guille", "2025-01", EstadoCerrada, 500)
	ledger := nuevoLedgerDePrueba(repo)

	_, err := ledger.AgregarAjuste("Guille", "2025-01", AjustePositivo, 100, "premio trimestral")
	require.NoError(t, err)

	actualizada, err := ledger.AgregarAjuste("Guille", "2025-01", AjusteNegativo, 30, "nota de crédito")
	require.NoError(t, err)

	assert.InDelta(t, 570, actualizada.TotalFinal, 0.001)
	assert.Len(t, repo.porID[c.ID].Ajustes, 2)
}

func TestAgregarAjusteSoloConPeriodoCerrado(t *testing.T) {
	repo := nuevoRepoComisionFalso()
	sembrarComision(t, repo, "Guille", "2025-01", EstadoCalculada, 500)
	sembrarComision(t, repo, "Matias", "2025-01", EstadoPagada, 300)
	ledger := nuevoLedgerDePrueba(repo)

	_, err := ledger.AgregarAjuste("Guille", "2025-01", AjustePositivo, 50, "premio")
	assert.ErrorIs(t, err, ErrEstado, "calculada no acepta ajustes")

	_, err = ledger.AgregarAjuste("Matias", "2025-01", AjustePositivo, 50, "premio")
	assert.ErrorIs(t, err, ErrEstado, "pagada es terminal")
}

func TestAgregarAjusteValidaMontoYMotivo(t *testing.T) {
	repo := nuevoRepoComisionFalso()
	sembrarComision(t, repo, "Guille", "2025-01", EstadoCerrada, 500)
	ledger := nuevoLedgerDePrueba(repo)

	_, err := ledger.AgregarAjuste("Guille", "2025-01", AjustePositivo, 0, "motivo")
	assert.ErrorIs(t, err, ErrAjusteInvalido)

	_, err = ledger.AgregarAjuste("Guille", "2025-01", AjustePositivo, -10, "motivo")
	assert.ErrorIs(t, err, ErrAjusteInvalido)

	_, err = ledger.AgregarAjuste("Guille", "2025-01", AjustePositivo, 10, "   ")
	assert.ErrorIs(t, err, ErrAjusteInvalido)

	_, err = ledger.AgregarAjuste("Guille", "2025-01", "neutro", 10, "motivo")
	assert.ErrorIs(t, err, ErrAjusteInvalido)
}

func TestPagarSoloDesdeCerrada(t *testing.T) {
	repo := nuevoRepoComisionFalso()
	cerrada := sembrarComision(t, repo, "Guille", "2025-01", EstadoCerrada, 500)
	calculada := sembrarComision(t, repo, "Matias", "2025-01", EstadoCalculada, 300)
	ledger := nuevoLedgerDePrueba(repo)

	pagada, err := ledger.Pagar("Guille", "2025-01")
	require.NoError(t, err)
	assert.Equal(t, EstadoPagada, pagada.Estado)
	assert.Equal(t, EstadoPagada, repo.porID[cerrada.ID].Estado)

	_, err = ledger.Pagar("Matias", "2025-01")
	assert.ErrorIs(t, err, ErrEstado)
	assert.Equal(t, EstadoCalculada, repo.porID[calculada.ID].Estado)
}

func TestPagarEsTerminal(t *testing.T) {
	repo := nuevoRepoComisionFalso()
	sembrarComision(t, repo, "Guille", "2025-01", EstadoPagada, 500)
	ledger := nuevoLedgerDePrueba(repo)

	_, err := ledger.Pagar("Guille", "2025-01")
	assert.ErrorIs(t, err, ErrEstado)

	_, err = ledger.AgregarAjuste("Guille", "2025-01", AjustePositivo, 10, "tarde")
	assert.ErrorIs(t, err, ErrEstado)
}

func TestObtenerInexistente(t *testing.T) {
	ledger := nuevoLedgerDePrueba(nuevoRepoComisionFalso())

	_, err := ledger.Obtener("Guille", "2025-01")
	assert.ErrorIs(t, err, ErrNoEncontrada)

	_, err = ledger.Obtener("Guille", "enero")
	assert.ErrorIs(t, err, ErrPeriodoInvalido)
}

func TestTotalConAjustes(t *testing.T) {
	ajustes := []Ajuste{
		{Tipo: AjustePositivo, Monto: 100},
		{Tipo: AjusteNegativo, Monto: 30},
	}
	assert.InDelta(t, 570, TotalConAjustes(500, ajustes), 0.001)
	assert.InDelta(t, 500, TotalConAjustes(500, nil), 0.001)
}
