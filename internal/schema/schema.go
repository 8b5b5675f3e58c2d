// Package schema declares the registry of tables the sync surface may touch.
// Every table the mobile client synchronizes is described here with its
// ordered column list, constraints and ownership scope; the repositories
// never interpolate an identifier that does not come from this registry.
package schema

import (
	"fmt"
	"strings"
)

// ScopeKind tags how a table's rows relate to an owning professor.
type ScopeKind int

const (
	// ScopeNone means the table ignores the owner-id segment.
	ScopeNone ScopeKind = iota
	// ScopeDirect filters on an owner-id column of the table itself.
	ScopeDirect
	// ScopeTransitive filters through a statically-known ownership chain.
	ScopeTransitive
)

// Scope describes the filter applied when a download request carries an
// owner id. Transitive scopes hold a complete WHERE fragment that must
// reference the owner id as $1.
type Scope struct {
	Kind   ScopeKind
	Column string
	Filter string
}

// Column is a single registered column with its DDL type clause.
type Column struct {
	Name string
	Type string
}

// Table describes one synchronizable table.
type Table struct {
	Name        string
	Columns     []Column
	Constraints []string
	Scope       Scope

	columnSet map[string]struct{}
}

// DDL renders the idempotent creation statement for the table.
func (t *Table) DDL() string {
	parts := make([]string, 0, len(t.Columns)+len(t.Constraints))
	for _, col := range t.Columns {
		parts = append(parts, fmt.Sprintf("%s %s", col.Name, col.Type))
	}
	parts = append(parts, t.Constraints...)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(parts, ",\n\t"))
}

// HasColumn reports whether name is a registered column of the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columnSet[name]
	return ok
}

// ColumnNames returns the registered column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ownedByProfessor is the filter walking asignaturas up to the owning
// professor, shared by the enrollment-shaped tables.
const ownedByProfessor = "asignatura_id IN (SELECT a.id FROM asignaturas a JOIN cursos c ON c.id = a.curso_id WHERE c.profesor_id = $1)"

// tables lists every known table in creation order; foreign keys only
// reference tables that appear earlier.
var tables = []*Table{
	{
		Name: "ministerios",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"nombre", "TEXT NOT NULL"},
			{"codigo_acceso", "TEXT UNIQUE"},
		},
	},
	{
		Name: "regiones",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"ministerio_id", "INTEGER NOT NULL"},
			{"nombre", "TEXT NOT NULL"},
			{"codigo_acceso", "TEXT UNIQUE"},
		},
		Constraints: []string{
			"FOREIGN KEY (ministerio_id) REFERENCES ministerios(id) ON DELETE CASCADE",
		},
	},
	{
		Name: "distritos",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"region_id", "INTEGER NOT NULL"},
			{"nombre", "TEXT NOT NULL"},
			{"codigo_acceso", "TEXT UNIQUE"},
		},
		Constraints: []string{
			"FOREIGN KEY (region_id) REFERENCES regiones(id) ON DELETE CASCADE",
		},
	},
	{
		Name: "escuelas",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"distrito_id", "INTEGER NOT NULL"},
			{"nombre", "TEXT NOT NULL"},
			{"codigo_acceso", "TEXT UNIQUE"},
		},
		Constraints: []string{
			"FOREIGN KEY (distrito_id) REFERENCES distritos(id) ON DELETE CASCADE",
		},
	},
	{
		Name: "usuarios",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"nombre", "TEXT NOT NULL"},
			{"apellido", "TEXT"},
			{"correo", "TEXT NOT NULL UNIQUE"},
			{"telefono", "TEXT UNIQUE"},
			{"rol", "TEXT"},
			{"contrasena", "TEXT NOT NULL"},
			{"pregunta_seguridad_1", "TEXT"},
			{"respuesta_seguridad_1", "TEXT"},
			{"pregunta_seguridad_2", "TEXT"},
			{"respuesta_seguridad_2", "TEXT"},
			{"pregunta_seguridad_3", "TEXT"},
			{"respuesta_seguridad_3", "TEXT"},
			{"intentos_recuperacion", "INTEGER DEFAULT 0"},
			{"escuela_id", "INTEGER"},
		},
		Constraints: []string{
			"FOREIGN KEY (escuela_id) REFERENCES escuelas(id) ON DELETE CASCADE",
		},
	},
	{
		Name: "estudiantes",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"nombre", "TEXT NOT NULL"},
			{"apellido", "TEXT NOT NULL"},
			{"escuela_id", "INTEGER"},
		},
		Constraints: []string{
			"FOREIGN KEY (escuela_id) REFERENCES escuelas(id) ON DELETE CASCADE",
		},
		Scope: Scope{
			Kind:   ScopeTransitive,
			Filter: "id IN (SELECT ea.estudiante_id FROM estudiante_asignatura ea JOIN asignaturas a ON a.id = ea.asignatura_id JOIN cursos c ON c.id = a.curso_id WHERE c.profesor_id = $1)",
		},
	},
	{
		Name: "cursos",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"nombre_curso", "TEXT NOT NULL"},
			{"descripcion", "TEXT"},
			{"profesor_id", "INTEGER"},
			{"escuela_id", "INTEGER"},
		},
		Constraints: []string{
			"FOREIGN KEY (profesor_id) REFERENCES usuarios(id) ON DELETE CASCADE",
			"FOREIGN KEY (escuela_id) REFERENCES escuelas(id) ON DELETE CASCADE",
		},
		Scope: Scope{Kind: ScopeDirect, Column: "profesor_id"},
	},
	{
		Name: "asignaturas",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"curso_id", "INTEGER NOT NULL"},
			{"nombre", "TEXT NOT NULL"},
			{"color", "TEXT"},
		},
		Constraints: []string{
			"FOREIGN KEY (curso_id) REFERENCES cursos(id) ON DELETE CASCADE",
		},
		Scope: Scope{
			Kind:   ScopeTransitive,
			Filter: "curso_id IN (SELECT id FROM cursos WHERE profesor_id = $1)",
		},
	},
	{
		Name: "estudiante_asignatura",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"estudiante_id", "INTEGER NOT NULL"},
			{"asignatura_id", "INTEGER NOT NULL"},
		},
		Constraints: []string{
			"FOREIGN KEY (estudiante_id) REFERENCES estudiantes(id) ON DELETE CASCADE",
			"FOREIGN KEY (asignatura_id) REFERENCES asignaturas(id) ON DELETE CASCADE",
			"UNIQUE (estudiante_id, asignatura_id)",
		},
		Scope: Scope{Kind: ScopeTransitive, Filter: ownedByProfessor},
	},
	{
		Name: "planificaciones",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"curso_id", "INTEGER"},
			{"asignatura_id", "INTEGER NOT NULL"},
			{"profesor_id", "INTEGER"},
			{"tema", "TEXT NOT NULL"},
			{"duracion", "INTEGER"},
			{"json_plan", "TEXT NOT NULL"},
			{"fecha_creacion", "TEXT"},
		},
		Constraints: []string{
			"FOREIGN KEY (curso_id) REFERENCES cursos(id) ON DELETE CASCADE",
			"FOREIGN KEY (asignatura_id) REFERENCES asignaturas(id) ON DELETE CASCADE",
			"FOREIGN KEY (profesor_id) REFERENCES usuarios(id) ON DELETE CASCADE",
		},
		Scope: Scope{Kind: ScopeDirect, Column: "profesor_id"},
	},
	{
		Name: "asistencia",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"estudiante_id", "INTEGER NOT NULL"},
			{"asignatura_id", "INTEGER NOT NULL"},
			{"fecha", "TEXT NOT NULL"},
			{"estado", "TEXT NOT NULL"},
			{"comentario", "TEXT"},
			{"ano_escolar", "TEXT NOT NULL DEFAULT ''"},
		},
		Constraints: []string{
			"FOREIGN KEY (estudiante_id) REFERENCES estudiantes(id) ON DELETE CASCADE",
			"FOREIGN KEY (asignatura_id) REFERENCES asignaturas(id) ON DELETE CASCADE",
			"UNIQUE (estudiante_id, asignatura_id, fecha, ano_escolar)",
		},
		Scope: Scope{Kind: ScopeTransitive, Filter: ownedByProfessor},
	},
	{
		Name: "registro_asistencia_detallado",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"curso_id", "INTEGER NOT NULL"},
			{"estudiante_id", "INTEGER NOT NULL"},
			{"nombre_estudiante", "TEXT"},
			{"apellido_estudiante", "TEXT"},
			{"estado", "TEXT NOT NULL"},
			{"fecha", "TEXT NOT NULL"},
			{"hora", "TEXT NOT NULL"},
			{"dia_semana", "TEXT NOT NULL"},
			{"comentario", "TEXT"},
		},
		Constraints: []string{
			"FOREIGN KEY (curso_id) REFERENCES cursos(id) ON DELETE CASCADE",
			"FOREIGN KEY (estudiante_id) REFERENCES estudiantes(id) ON DELETE CASCADE",
		},
		Scope: Scope{
			Kind:   ScopeTransitive,
			Filter: "curso_id IN (SELECT id FROM cursos WHERE profesor_id = $1)",
		},
	},
	{
		Name: "calificacion_estandar",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"estudiante_id", "INTEGER NOT NULL"},
			{"asignatura_id", "INTEGER NOT NULL"},
			{"profesor_id", "INTEGER NOT NULL"},
			{"curso_id", "INTEGER NOT NULL"},
			{"periodo", "TEXT NOT NULL"},
			{"asistencia", "REAL"},
			{"comportamiento", "REAL"},
			{"cuaderno", "REAL"},
			{"actividades", "REAL"},
			{"examen", "REAL"},
			{"fecha", "TEXT"},
			{"total_nota_acumulada", "REAL"},
			{"ano_escolar", "TEXT NOT NULL DEFAULT ''"},
		},
		Constraints: []string{
			"FOREIGN KEY (estudiante_id) REFERENCES estudiantes(id) ON DELETE CASCADE",
			"FOREIGN KEY (asignatura_id) REFERENCES asignaturas(id) ON DELETE CASCADE",
			"FOREIGN KEY (profesor_id) REFERENCES usuarios(id) ON DELETE CASCADE",
			"FOREIGN KEY (curso_id) REFERENCES cursos(id) ON DELETE CASCADE",
			"UNIQUE (estudiante_id, asignatura_id, periodo, ano_escolar)",
		},
		Scope: Scope{Kind: ScopeDirect, Column: "profesor_id"},
	},
	{
		Name: "calificacion_competencias",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"estudiante_id", "INTEGER NOT NULL"},
			{"asignatura_id", "INTEGER NOT NULL"},
			{"profesor_id", "INTEGER NOT NULL"},
			{"curso_id", "INTEGER NOT NULL"},
			{"periodo", "TEXT NOT NULL"},
			{"fecha", "TEXT NOT NULL"},
			{"c1", "REAL"},
			{"c2", "REAL"},
			{"c3", "REAL"},
			{"c4", "REAL"},
			{"completivo", "REAL"},
			{"extraordinario", "REAL"},
			{"promedio", "REAL"},
			{"ano_escolar", "TEXT NOT NULL DEFAULT ''"},
		},
		Constraints: []string{
			"FOREIGN KEY (estudiante_id) REFERENCES estudiantes(id) ON DELETE CASCADE",
			"FOREIGN KEY (asignatura_id) REFERENCES asignaturas(id) ON DELETE CASCADE",
			"FOREIGN KEY (profesor_id) REFERENCES usuarios(id) ON DELETE CASCADE",
			"FOREIGN KEY (curso_id) REFERENCES cursos(id) ON DELETE CASCADE",
			"UNIQUE (estudiante_id, asignatura_id, periodo, ano_escolar)",
		},
		Scope: Scope{Kind: ScopeDirect, Column: "profesor_id"},
	},
	{
		Name: "pagos",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"profesor_id", "INTEGER NOT NULL"},
			{"order_id", "TEXT NOT NULL UNIQUE"},
			{"cantidad_asignaturas", "INTEGER NOT NULL DEFAULT 0"},
			{"asignaturas_consumidas", "INTEGER NOT NULL DEFAULT 0"},
			{"estado", "TEXT NOT NULL"},
			{"fecha", "TEXT"},
		},
		Constraints: []string{
			"FOREIGN KEY (profesor_id) REFERENCES usuarios(id) ON DELETE CASCADE",
		},
		Scope: Scope{Kind: ScopeDirect, Column: "profesor_id"},
	},
}

var tableIndex = make(map[string]*Table, len(tables))

func init() {
	for _, t := range tables {
		t.columnSet = make(map[string]struct{}, len(t.Columns))
		for _, col := range t.Columns {
			t.columnSet[col.Name] = struct{}{}
		}
		tableIndex[t.Name] = t
	}
}

// Tables returns every registered table in creation order.
func Tables() []*Table {
	return tables
}

// Lookup resolves a table by name.
func Lookup(name string) (*Table, bool) {
	t, ok := tableIndex[name]
	return t, ok
}
