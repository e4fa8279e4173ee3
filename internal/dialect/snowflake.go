package dialect

import "strings"

// SnowflakeDialect is the target-side dialect. Its information_schema is
// ANSI-shaped; identifiers come back upper-case.
type SnowflakeDialect struct{}

func (d *SnowflakeDialect) Name() string { return "snowflake" }

func (d *SnowflakeDialect) TablesQuery() string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *SnowflakeDialect) ColumnsQuery() string {
	return `
SELECT
    c.TABLE_NAME,
    c.COLUMN_NAME,
    c.DATA_TYPE,
    COALESCE(c.CHARACTER_MAXIMUM_LENGTH, 0),
    COALESCE(c.NUMERIC_PRECISION, 0),
    COALESCE(c.NUMERIC_SCALE, 0),
    c.IS_NULLABLE,
    c.COMMENT
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_SCHEMA = ?
ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
}

func (d *SnowflakeDialect) PrimaryKeysQuery() string {
	// Snowflake does not enforce PKs but records them in the constraint views.
	return `
SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
    ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = ?
ORDER BY kcu.TABLE_NAME, kcu.ORDINAL_POSITION`
}

func (d *SnowflakeDialect) NormalizeType(sqlType string) string {
	t := strings.ToUpper(strings.TrimSpace(sqlType))
	if t == "TEXT" {
		return "VARCHAR"
	}
	return t
}

func (d *SnowflakeDialect) DefaultSchema() string { return "PUBLIC" }
