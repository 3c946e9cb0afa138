package comisionperiodo

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// nuevoRepoConMock arma el repositorio gorm sobre una conexión SQL simulada.
func nuevoRepoConMock(t *testing.T) (Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewRepository(gormDB), mock, mockDB
}

func TestActualizarEstadoCondicional(t *testing.T) {
	t.Run("escribe cuando el estado actual es el esperado", func(t *testing.T) {
		repo, mock, mockDB := nuevoRepoConMock(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "comision_periodos" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ActualizarEstado(7, EstadoCalculada, EstadoCerrada)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("devuelve ErrEstado cuando otro escritor se adelantó", func(t *testing.T) {
		repo, mock, mockDB := nuevoRepoConMock(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "comision_periodos" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ActualizarEstado(7, EstadoCerrada, EstadoPagada)
		assert.ErrorIs(t, err, ErrEstado)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGuardarCalculadaCondicionaElRecalculo(t *testing.T) {
	t.Run("devuelve ErrEstado si el registro dejó de estar en calculada", func(t *testing.T) {
		repo, mock, mockDB := nuevoRepoConMock(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "comision_periodos" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.GuardarCalculada(&ComisionPeriodo{ID: 7, Vendedor: "Guille", Periodo: "2025-01"})
		assert.ErrorIs(t, err, ErrEstado)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pisa totales y detalle cuando sigue en calculada", func(t *testing.T) {
		repo, mock, mockDB := nuevoRepoConMock(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "comision_periodos" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "detalle_comisions"`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.GuardarCalculada(&ComisionPeriodo{ID: 7, Vendedor: "Guille", Periodo: "2025-01", TotalComision: 75})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuscarPorVendedorYPeriodoInexistente(t *testing.T) {
	repo, mock, mockDB := nuevoRepoConMock(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "comision_periodos"`).
		WillReturnError(gorm.ErrRecordNotFound)

	c, err := repo.BuscarPorVendedorYPeriodo("Guille", "2025-01")
	assert.NoError(t, err, "no encontrar no es un error")
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}
