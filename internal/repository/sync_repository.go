package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/aulaplan/aula-sync-api/internal/schema"
)

// SyncRepository executes the generic upsert, scoped list and delete
// statements. Every identifier it interpolates comes from the schema
// registry, never from the request.
type SyncRepository struct {
	db *sqlx.DB
}

// NewSyncRepository constructs a SyncRepository.
func NewSyncRepository(db *sqlx.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// EnsureSchema creates every registered table if absent, in dependency
// order. Safe to call concurrently and repeatedly.
func (r *SyncRepository) EnsureSchema(ctx context.Context) error {
	for _, table := range schema.Tables() {
		if _, err := r.db.ExecContext(ctx, table.DDL()); err != nil {
			return fmt.Errorf("create table %s: %w", table.Name, err)
		}
	}
	return nil
}

// Upsert inserts one row, overwriting every submitted column on primary-key
// conflict. Column order follows the registry so equal-shaped rows produce
// one statement shape. Row keys must already be validated against the
// registry.
func (r *SyncRepository) Upsert(ctx context.Context, table *schema.Table, row map[string]interface{}) error {
	columns := make([]string, 0, len(row))
	values := make([]interface{}, 0, len(row))
	assignments := make([]string, 0, len(row))

	for _, col := range table.Columns {
		value, ok := row[col.Name]
		if !ok {
			continue
		}
		columns = append(columns, col.Name)
		values = append(values, value)
		if col.Name != "id" {
			assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", col.Name, col.Name))
		}
	}

	if len(columns) == 0 {
		return fmt.Errorf("upsert %s: row has no registered columns", table.Name)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	conflict := "ON CONFLICT (id) DO NOTHING"
	if len(assignments) > 0 {
		conflict = "ON CONFLICT (id) DO UPDATE SET " + strings.Join(assignments, ", ")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) %s",
		table.Name,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		conflict,
	)

	if _, err := r.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("upsert %s: %w", table.Name, err)
	}
	return nil
}

// List returns the table's rows, restricted by the registry scope when an
// owner id is supplied. Tables without a scope descriptor ignore ownerID.
func (r *SyncRepository) List(ctx context.Context, table *schema.Table, ownerID *int64) ([]map[string]interface{}, error) {
	query := fmt.Sprintf("SELECT * FROM %s", table.Name)
	var args []interface{}

	if ownerID != nil {
		switch table.Scope.Kind {
		case schema.ScopeDirect:
			query += fmt.Sprintf(" WHERE %s = $1", table.Scope.Column)
			args = append(args, *ownerID)
		case schema.ScopeTransitive:
			query += " WHERE " + table.Scope.Filter
			args = append(args, *ownerID)
		}
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table.Name, err)
	}
	defer rows.Close()

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table.Name, err)
		}
		normalizeRow(row)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", table.Name, err)
	}
	return results, nil
}

// Delete removes one row by id. Missing rows are not an error.
func (r *SyncRepository) Delete(ctx context.Context, table *schema.Table, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table.Name)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete from %s: %w", table.Name, err)
	}
	return nil
}

// normalizeRow converts driver byte slices to strings so JSON encoding
// produces text instead of base64.
func normalizeRow(row map[string]interface{}) {
	for key, value := range row {
		if raw, ok := value.([]byte); ok {
			row[key] = string(raw)
		}
	}
}
