package dialect

import "strings"

// TypeClass is the coarse compatibility grouping used to decide whether a
// cast expression is required between a source and a target column.
type TypeClass int

const (
	ClassOther TypeClass = iota
	ClassNumeric
	ClassString
	ClassTemporal
	ClassBinary
)

func (c TypeClass) String() string {
	switch c {
	case ClassNumeric:
		return "numeric"
	case ClassString:
		return "string"
	case ClassTemporal:
		return "temporal"
	case ClassBinary:
		return "binary"
	}
	return "other"
}

// Class membership is substring-based on purpose: declared types arrive with
// length/precision suffixes and vendor prefixes (NUMBER(10,2), TIMESTAMP_NTZ).
// The grouping is coarse; any numeric counts as compatible with any other
// numeric, which accepts some false "no transformation needed" calls.
// LOB types (CLOB, BLOB) are deliberately unclassified so a move out of them
// always produces an explicit conversion expression.
var classTokens = []struct {
	class  TypeClass
	tokens []string
}{
	{ClassNumeric, []string{"NUMBER", "INTEGER", "INT", "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL", "SMALLINT", "BIGINT"}},
	{ClassString, []string{"VARCHAR2", "NVARCHAR2", "VARCHAR", "NCHAR", "CHAR", "TEXT", "STRING"}},
	{ClassTemporal, []string{"TIMESTAMP", "DATETIME", "DATE", "TIME"}},
	{ClassBinary, []string{"RAW", "BINARY", "BYTEA", "VARBINARY"}},
}

// Classify returns the compatibility class of a declared type.
func Classify(declared string) TypeClass {
	t := strings.ToUpper(declared)
	for _, entry := range classTokens {
		for _, tok := range entry.tokens {
			if strings.Contains(t, tok) {
				return entry.class
			}
		}
	}
	return ClassOther
}

// Compatible reports whether two declared types share a compatibility class.
// Unclassified types are compatible only on exact (case-folded) equality.
func Compatible(srcType, tgtType string) bool {
	sc, tc := Classify(srcType), Classify(tgtType)
	if sc != ClassOther && sc == tc {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(srcType), strings.TrimSpace(tgtType))
}

// OracleToSnowflake maps Oracle declared types to their Snowflake equivalents.
// Multi-word types must stay ahead of their prefixes (LONG RAW before LONG).
var OracleToSnowflake = []struct {
	Oracle    string
	Snowflake string
}{
	{"TIMESTAMP WITH TIME ZONE", "TIMESTAMP_TZ"},
	{"TIMESTAMP WITH LOCAL TIME ZONE", "TIMESTAMP_LTZ"},
	{"TIMESTAMP", "TIMESTAMP_NTZ"},
	{"VARCHAR2", "VARCHAR"},
	{"NVARCHAR2", "VARCHAR"},
	{"NCHAR", "CHAR"},
	{"CHAR", "CHAR"},
	{"NUMBER", "DECIMAL"},
	{"INTEGER", "INTEGER"},
	{"FLOAT", "FLOAT"},
	{"BINARY_DOUBLE", "DOUBLE"},
	{"DATE", "DATE"},
	{"CLOB", "VARCHAR"},
	{"NCLOB", "VARCHAR"},
	{"LONG RAW", "BINARY"},
	{"LONG", "VARCHAR"},
	{"BLOB", "BINARY"},
	{"RAW", "BINARY"},
}

// TargetType returns the Snowflake spelling for an Oracle declared type, or
// the input unchanged when no mapping applies.
func TargetType(oracleType string) string {
	t := strings.ToUpper(strings.TrimSpace(oracleType))
	for _, m := range OracleToSnowflake {
		if strings.HasPrefix(t, m.Oracle) {
			return m.Snowflake
		}
	}
	return t
}
