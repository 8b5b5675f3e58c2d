package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulaplan/aula-sync-api/internal/schema"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func mustLookup(t *testing.T, name string) *schema.Table {
	t.Helper()
	table, ok := schema.Lookup(name)
	require.True(t, ok)
	return table
}

func TestEnsureSchemaCreatesEveryTable(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	for range schema.Tables() {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertOverwritesSubmittedColumns(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cursos (id, nombre_curso, profesor_id) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET nombre_curso = EXCLUDED.nombre_curso, profesor_id = EXCLUDED.profesor_id")).
		WithArgs(int64(4), "Matemáticas", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), mustLookup(t, "cursos"), map[string]interface{}{
		"id":           int64(4),
		"nombre_curso": "Matemáticas",
		"profesor_id":  int64(7),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertColumnOrderFollowsRegistryNotRowKeys(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	// Registry order is id, curso_id, nombre, color regardless of map order.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO asignaturas (id, curso_id, nombre, color) VALUES ($1, $2, $3, $4)")).
		WithArgs(int64(1), int64(2), "Historia", "#aabbcc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), mustLookup(t, "asignaturas"), map[string]interface{}{
		"color":    "#aabbcc",
		"nombre":   "Historia",
		"id":       int64(1),
		"curso_id": int64(2),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertIDOnlyRowDegradesToInsertIgnore(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO estudiantes (id) VALUES ($1) ON CONFLICT (id) DO NOTHING")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Upsert(context.Background(), mustLookup(t, "estudiantes"), map[string]interface{}{"id": int64(9)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDirectScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nombre_curso", "descripcion", "profesor_id", "escuela_id"}).
		AddRow(1, "Matemáticas", nil, 7, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM cursos WHERE profesor_id = $1 ORDER BY id")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	owner := int64(7)
	result, err := repo.List(context.Background(), mustLookup(t, "cursos"), &owner)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Matemáticas", result[0]["nombre_curso"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransitiveScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	rows := sqlmock.NewRows([]string{"id", "curso_id", "nombre", "color"}).
		AddRow(3, 1, "Historia", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM asignaturas WHERE curso_id IN (SELECT id FROM cursos WHERE profesor_id = $1) ORDER BY id")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	owner := int64(7)
	result, err := repo.List(context.Background(), mustLookup(t, "asignaturas"), &owner)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithoutOwnerReturnsAllRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nombre_curso", "descripcion", "profesor_id", "escuela_id"}).
		AddRow(1, "Matemáticas", nil, 7, nil).
		AddRow(2, "Lengua", nil, 8, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM cursos ORDER BY id")).
		WillReturnRows(rows)

	result, err := repo.List(context.Background(), mustLookup(t, "cursos"), nil)
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnscopedTableIgnoresOwner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nombre", "codigo_acceso"}).AddRow(1, "Central", "ABC")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM ministerios ORDER BY id")).
		WillReturnRows(rows)

	owner := int64(7)
	result, err := repo.List(context.Background(), mustLookup(t, "ministerios"), &owner)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNormalizesByteSlices(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nombre_curso", "descripcion", "profesor_id", "escuela_id"}).
		AddRow(1, []byte("Matemáticas"), nil, 7, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM cursos ORDER BY id")).WillReturnRows(rows)

	result, err := repo.List(context.Background(), mustLookup(t, "cursos"), nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Matemáticas", result[0]["nombre_curso"])
}

func TestDeleteMissingRowSucceeds(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyncRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cursos WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), mustLookup(t, "cursos"), 99))
	assert.NoError(t, mock.ExpectationsWereMet())
}
