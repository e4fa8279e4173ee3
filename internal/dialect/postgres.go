package dialect

import "strings"

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) TablesQuery() string {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func (d *PostgresDialect) ColumnsQuery() string {
	return `
SELECT
    c.table_name,
    c.column_name,
    c.data_type,
    COALESCE(c.character_maximum_length, 0),
    COALESCE(c.numeric_precision, 0),
    COALESCE(c.numeric_scale, 0),
    c.is_nullable,
    col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position)
FROM information_schema.columns c
WHERE c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) PrimaryKeysQuery() string {
	return `
SELECT kcu.table_name, kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
    ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1
ORDER BY kcu.table_name, kcu.ordinal_position`
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToUpper(strings.TrimSpace(sqlType))
	// information_schema reports verbose spellings
	switch t {
	case "CHARACTER VARYING":
		return "VARCHAR"
	case "CHARACTER":
		return "CHAR"
	case "TIMESTAMP WITHOUT TIME ZONE":
		return "TIMESTAMP"
	case "TIMESTAMP WITH TIME ZONE":
		return "TIMESTAMP WITH TIME ZONE"
	case "DOUBLE PRECISION":
		return "DOUBLE"
	}
	return t
}

func (d *PostgresDialect) DefaultSchema() string { return "public" }
