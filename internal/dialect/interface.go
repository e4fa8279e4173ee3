package dialect

// Dialect abstracts engine-specific metadata extraction and naming.
// Source side: oracle, sqlserver, postgres, mysql. Target side: snowflake.
type Dialect interface {
	Name() string

	// Metadata Queries (Schema Introspection). Each takes the schema name as
	// its single bind parameter and returns rows in a fixed column order:
	//   TablesQuery:      table_name
	//   ColumnsQuery:     table_name, column_name, data_type, length,
	//                     precision, scale, nullable, comment
	//   PrimaryKeysQuery: table_name, column_name
	TablesQuery() string
	ColumnsQuery() string
	PrimaryKeysQuery() string

	// NormalizeType maps an engine-declared type to the canonical upper-case
	// spelling the compatibility tables work with.
	NormalizeType(sqlType string) string

	// DefaultSchema is the namespace assumed when the config names none.
	DefaultSchema() string
}
