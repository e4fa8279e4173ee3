package dialect

// Get returns the Dialect implementation for a driver name.
func Get(driver string) Dialect {
	switch driver {
	case "snowflake":
		return &SnowflakeDialect{}
	case "postgres":
		return &PostgresDialect{}
	case "sqlserver", "mssql":
		return &MSSQLDialect{}
	case "mysql":
		return &MysqlDialect{}
	default: // oracle is the primary legacy source
		return &OracleDialect{}
	}
}

// Ensure interface implementation
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*SnowflakeDialect)(nil)
