package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulaplan/aula-sync-api/internal/models"
)

func usuarioRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "nombre", "apellido", "correo", "telefono", "rol", "contrasena",
		"pregunta_seguridad_1", "respuesta_seguridad_1",
		"pregunta_seguridad_2", "respuesta_seguridad_2",
		"pregunta_seguridad_3", "respuesta_seguridad_3",
		"intentos_recuperacion", "escuela_id",
	})
}

func TestFindByCorreo(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := usuarioRows().AddRow(1, "Ana", nil, "a@x.com", "555", "profesor", "hash",
		"q1", "r1", "q2", "r2", "q3", "r3", 0, nil)
	mock.ExpectQuery("SELECT .+ FROM usuarios WHERE correo = \\$1 LIMIT 1").
		WithArgs("a@x.com").
		WillReturnRows(rows)

	user, err := repo.FindByCorreo(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Nombre)
	assert.Equal(t, "a@x.com", user.Correo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByTelefono(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := usuarioRows().AddRow(2, "Luis", nil, "l@x.com", "777", nil, "hash",
		nil, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery("SELECT .+ FROM usuarios WHERE telefono = \\$1 LIMIT 1").
		WithArgs("777").
		WillReturnRows(rows)

	user, err := repo.FindByTelefono(context.Background(), "777")
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByCorreo(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM usuarios WHERE correo = $1 LIMIT 1")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByCorreo(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExistsByCorreoNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM usuarios WHERE correo = $1 LIMIT 1")).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByCorreo(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreatePopulatesGeneratedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO usuarios").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	telefono := "555"
	user := &models.Usuario{Nombre: "Ana", Correo: "a@x.com", Telefono: &telefono, Contrasena: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(42), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContrasenaByTelefono(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE usuarios SET contrasena = $2 WHERE telefono = $1")).
		WithArgs("555", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateContrasenaByTelefono(context.Background(), "555", "newhash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
