package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ridoystarlord/knexgen/schema"
)

// Querier is the part of a pgx pool or connection the inspector needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Inspector reads table descriptors from a live PostgreSQL catalog.
type Inspector struct {
	db Querier
}

func NewInspector(db Querier) *Inspector {
	return &Inspector{db: db}
}

const tablesQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = $1 AND table_type = 'BASE TABLE'
	ORDER BY table_name;
	`

// ListTables returns the base tables of a schema in name order.
func (i *Inspector) ListTables(ctx context.Context, schemaName string) ([]string, error) {
	rows, err := i.db.Query(ctx, tablesQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tableNames []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tableNames = append(tableNames, tableName)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating table rows: %w", err)
	}

	return tableNames, nil
}

// DescribeTable reads the columns and key constraints of one table.
func (i *Inspector) DescribeTable(ctx context.Context, schemaName, tableName string) (*schema.Table, error) {
	columns, err := i.getColumns(ctx, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting columns for table %s.%s: %w", schemaName, tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schemaName, tableName)
	}

	constraints, err := i.getConstraints(ctx, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting constraints for table %s.%s: %w", schemaName, tableName, err)
	}

	return &schema.Table{
		Schema:      schemaName,
		Name:        tableName,
		Columns:     columns,
		Constraints: constraints,
	}, nil
}

const columnsQuery = `
	SELECT
		c.column_name,
		c.data_type,
		(c.is_nullable = 'YES') AS is_nullable,
		c.column_default,
		c.numeric_precision::int,
		c.numeric_scale::int,
		c.character_maximum_length::int
	FROM information_schema.columns c
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position;
	`

func (i *Inspector) getColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnDescriptor, error) {
	rows, err := i.db.Query(ctx, columnsQuery, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.ColumnDescriptor
	for rows.Next() {
		var col schema.ColumnDescriptor
		if err := rows.Scan(
			&col.Name,
			&col.DataType,
			&col.Nullable,
			&col.Default,
			&col.NumericPrecision,
			&col.NumericScale,
			&col.CharMaxLength,
		); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column rows: %w", err)
	}

	return columns, nil
}

// Key columns are unnested WITH ORDINALITY so composite keys keep the
// pairing between local and referenced columns.
const constraintsQuery = `
	SELECT
		con.conname,
		CASE con.contype
			WHEN 'p' THEN 'PRIMARY KEY'
			WHEN 'f' THEN 'FOREIGN KEY'
			ELSE 'UNIQUE'
		END AS constraint_type,
		ARRAY(
			SELECT a.attname::text
			FROM unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
			JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum
			ORDER BY k.ord
		) AS column_names,
		COALESCE(fn.nspname::text, '') AS foreign_schema,
		COALESCE(fc.relname::text, '') AS foreign_table,
		ARRAY(
			SELECT a.attname::text
			FROM unnest(con.confkey) WITH ORDINALITY AS k(attnum, ord)
			JOIN pg_attribute a ON a.attrelid = con.confrelid AND a.attnum = k.attnum
			ORDER BY k.ord
		) AS foreign_column_names,
		CASE WHEN con.contype = 'f' THEN con.confdeltype::text ELSE '' END AS delete_rule,
		CASE WHEN con.contype = 'f' THEN con.confupdtype::text ELSE '' END AS update_rule
	FROM pg_constraint con
	JOIN pg_class c ON c.oid = con.conrelid
	JOIN pg_namespace n ON n.oid = c.relnamespace
	LEFT JOIN pg_class fc ON fc.oid = con.confrelid
	LEFT JOIN pg_namespace fn ON fn.oid = fc.relnamespace
	WHERE n.nspname = $1
		AND c.relname = $2
		AND con.contype IN ('p', 'f', 'u')
	ORDER BY
		CASE con.contype WHEN 'p' THEN 0 WHEN 'f' THEN 1 ELSE 2 END,
		con.conname;
	`

func (i *Inspector) getConstraints(ctx context.Context, schemaName, tableName string) ([]schema.ConstraintDescriptor, error) {
	rows, err := i.db.Query(ctx, constraintsQuery, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying constraints: %w", err)
	}
	defer rows.Close()

	var constraints []schema.ConstraintDescriptor
	for rows.Next() {
		var (
			c                  schema.ConstraintDescriptor
			kind               string
			onDelete, onUpdate string
		)
		if err := rows.Scan(
			&c.Name,
			&kind,
			&c.Columns,
			&c.ForeignSchema,
			&c.ForeignTable,
			&c.ForeignColumns,
			&onDelete,
			&onUpdate,
		); err != nil {
			return nil, fmt.Errorf("scanning constraint: %w", err)
		}
		c.Kind = schema.ConstraintKind(kind)
		c.OnDelete = ReferentialAction(onDelete)
		c.OnUpdate = ReferentialAction(onUpdate)
		if len(c.ForeignColumns) == 0 {
			c.ForeignColumns = nil
		}
		constraints = append(constraints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating constraint rows: %w", err)
	}

	return constraints, nil
}

// ReferentialAction maps pg_constraint's confdeltype/confupdtype codes to
// the SQL action name. NO ACTION, the catalog default, maps to "".
func ReferentialAction(code string) string {
	switch code {
	case "c":
		return "CASCADE"
	case "n":
		return "SET NULL"
	case "d":
		return "SET DEFAULT"
	case "r":
		return "RESTRICT"
	default:
		return ""
	}
}
